package config

type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     int    `envconfig:"PORT" default:"8080"`

	WhatsAppToken string `envconfig:"WHATSAPP_TOKEN" required:"true"`
	VerifyToken   string `envconfig:"VERIFY_TOKEN" default:"whatsapp_verify_123"`

	HuggingFaceToken  string `envconfig:"HUGGINGFACE_TOKEN"`
	InferenceModelURL string `envconfig:"INFERENCE_MODEL_URL" default:"https://api-inference.huggingface.co/models/microsoft/DialoGPT-large"`

	BusinessName string `envconfig:"BUSINESS_NAME" default:"Your Business"`
	SupportEmail string `envconfig:"SUPPORT_EMAIL" default:"support@yourbusiness.com"`

	GoogleProjectID    string `envconfig:"GOOGLE_PROJECT_ID"`
	GooglePrivateKeyID string `envconfig:"GOOGLE_PRIVATE_KEY_ID"`
	GooglePrivateKey   string `envconfig:"GOOGLE_PRIVATE_KEY"`
	GoogleClientEmail  string `envconfig:"GOOGLE_CLIENT_EMAIL"`
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleSheetID      string `envconfig:"GOOGLE_SHEET_ID"`
}

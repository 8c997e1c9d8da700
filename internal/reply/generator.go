package reply

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const maxReplyLength = 400

// TextGenerator produces a free-form completion for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, correlationID string) (string, error)
}

// predefined maps keyword substrings to canned reply templates. Checked in
// order, so more specific greetings win over substrings that follow them.
var predefined = []struct {
	keyword  string
	template string
}{
	{"hello", "Hello {name}! Welcome to {business}. How can I help you today?"},
	{"hi", "Hi {name}! Thanks for contacting {business}. What can I assist you with?"},
	{"help", "I'm here to help! Please tell me what you need assistance with."},
	{"hours", "Our business hours are 9 AM to 6 PM, Monday to Friday."},
	{"price", "For pricing information, please let me know which product you're interested in."},
	{"order", "I'd be happy to help with your order. Could you provide your order number?"},
	{"support", "You're talking to our support! For complex issues, email {email}."},
}

type Generator struct {
	textGen      TextGenerator
	businessName string
	supportEmail string
	logger       *slog.Logger
}

func NewGenerator(textGen TextGenerator, businessName, supportEmail string, logger *slog.Logger) *Generator {
	return &Generator{
		textGen:      textGen,
		businessName: businessName,
		supportEmail: supportEmail,
		logger:       logger,
	}
}

// Reply produces the response text for an inbound customer message. The
// predefined table is consulted first; otherwise the hosted model is asked,
// with a static greeting when it yields nothing usable and a holding reply
// when the call fails outright.
func (g *Generator) Reply(ctx context.Context, message, customerName, correlationID string) string {
	if canned, ok := g.predefinedReply(message, customerName); ok {
		g.logger.Info("Using predefined response", "correlation_id", correlationID)
		return canned
	}

	prompt := fmt.Sprintf("Customer %s says: %s. Reply as helpful customer support:", customerName, message)

	generated, err := g.textGen.Generate(ctx, prompt, correlationID)
	if err != nil {
		g.logger.Error("Text generation failed", "error", err, "correlation_id", correlationID)
		return fmt.Sprintf("Hi %s! Thanks for your message. Our team will get back to you soon!", customerName)
	}

	// Models echo the prompt back ahead of the completion.
	response := strings.TrimSpace(strings.ReplaceAll(generated, prompt, ""))

	if len(response) > 10 {
		if len(response) > maxReplyLength {
			response = response[:maxReplyLength]
		}
		return response
	}

	return fmt.Sprintf("Hello %s! Thank you for contacting %s. How can I help you today?", customerName, g.businessName)
}

func (g *Generator) predefinedReply(message, customerName string) (string, bool) {
	lower := strings.ToLower(message)
	for _, p := range predefined {
		if strings.Contains(lower, p.keyword) {
			filler := strings.NewReplacer(
				"{name}", customerName,
				"{business}", g.businessName,
				"{email}", g.supportEmail,
			)
			return filler.Replace(p.template), true
		}
	}
	return "", false
}

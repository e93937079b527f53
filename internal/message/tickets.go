package message

import (
	"strings"

	"github.com/thomas-vilte/commithelper/internal/config"
)

// SplitTickets splits s on the configured ticket separator, taken literally.
// Tokens are trimmed and empty ones are dropped.
func SplitTickets(s string, cfg *config.Config) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := []string{s}
	if cfg.TicketSeparator != "" {
		parts = strings.Split(s, cfg.TicketSeparator)
	}

	var tickets []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			tickets = append(tickets, part)
		}
	}
	return tickets
}

// JoinTickets is the inverse of SplitTickets.
func JoinTickets(tickets []string, cfg *config.Config) string {
	return strings.Join(tickets, cfg.TicketSeparator+" ")
}

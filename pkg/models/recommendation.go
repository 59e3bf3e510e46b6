package models

import (
	"fmt"
	"strings"
)

// ResponseStyle is the tone the backend uses for its reply.
type ResponseStyle string

const (
	StyleEmpathetic ResponseStyle = "empathetic"
	StyleRude       ResponseStyle = "rude"
	StyleFormal     ResponseStyle = "formal"
)

// ResponseStyles lists the accepted styles in display order.
var ResponseStyles = []ResponseStyle{StyleEmpathetic, StyleRude, StyleFormal}

func (s ResponseStyle) Valid() bool {
	switch s {
	case StyleEmpathetic, StyleRude, StyleFormal:
		return true
	}
	return false
}

func ParseResponseStyle(s string) (ResponseStyle, error) {
	style := ResponseStyle(strings.ToLower(strings.TrimSpace(s)))
	if !style.Valid() {
		return "", fmt.Errorf("invalid response style %q (use empathetic, rude or formal)", s)
	}
	return style, nil
}

type ProcessMessageRequest struct {
	Message       string        `json:"message"`
	ResponseStyle ResponseStyle `json:"response_style"`
}

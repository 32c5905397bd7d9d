// Package view renders the single game page. The page polls /api/state and calls the JSON API.
package view

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/AlexZinkM/bob-poker/internal/model"
	"github.com/AlexZinkM/bob-poker/internal/wallet"

	"go.uber.org/zap"
)

//go:embed templates/index.html
var templates embed.FS

var indexTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

const defaultPollInterval = 2 * time.Second

// StateSource is the game state the page renders
type StateSource interface {
	State() model.StateResponse
}

// ConnectorButton is one "Connect ..." button
type ConnectorButton struct {
	Name  string
	Label string
}

// Page is the static part of the page
type Page struct {
	Symbol       string
	TokenAddress string
	GameAddress  string
	ExplorerURL  string
	MaxBet       string
	Connectors   []ConnectorButton
	PollInterval time.Duration
}

type pageData struct {
	Page
	State      model.StateResponse
	PollMillis int64
}

// ButtonsFor lists the buttons for the configured connectors in order
func ButtonsFor(connectors []wallet.Connector) []ConnectorButton {
	buttons := make([]ConnectorButton, 0, len(connectors))
	for _, c := range connectors {
		buttons = append(buttons, ConnectorButton{Name: c.Name(), Label: c.Label()})
	}
	return buttons
}

// Handler serves GET /
func Handler(page Page, state StateSource, logger *zap.Logger) http.HandlerFunc {
	if page.PollInterval <= 0 {
		page.PollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Page:       page,
			State:      state.State(),
			PollMillis: page.PollInterval.Milliseconds(),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, data); err != nil {
			logger.Error("failed to render page", zap.Error(err))
		}
	}
}

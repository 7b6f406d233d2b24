package sheets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

type ClientState int

const (
	StateUninitialized ClientState = iota
	StateAuthorizing
	StateReady
)

func (s ClientState) String() string {
	switch s {
	case StateAuthorizing:
		return "authorizing"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

type GoogleConfig struct {
	SpreadsheetID string
	ClientEmail   string
	PrivateKey    string
	// Tabs are created on authorization when the spreadsheet lacks them.
	Tabs []string
}

// Google is a Table backed by the Google Sheets v4 API. The authorized
// service handle is created once per process and shared by every request;
// concurrent first callers wait on the same authorization attempt.
type Google struct {
	cfg  GoogleConfig
	log  zerolog.Logger
	dial func(ctx context.Context) (*gsheets.Service, error)

	group singleflight.Group
	mu    sync.RWMutex
	state ClientState
	svc   *gsheets.Service
}

func NewGoogle(cfg GoogleConfig, log zerolog.Logger) *Google {
	g := &Google{cfg: cfg, log: log.With().Str("component", "sheets").Logger()}
	g.dial = g.dialServiceAccount
	return g
}

// Authorize performs the one-time credential exchange. Calling it again after
// success is a no-op.
func (g *Google) Authorize(ctx context.Context) error {
	_, err := g.service(ctx)
	return err
}

func (g *Google) State() ClientState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Google) service(ctx context.Context) (*gsheets.Service, error) {
	g.mu.RLock()
	if g.state == StateReady {
		svc := g.svc
		g.mu.RUnlock()
		return svc, nil
	}
	g.mu.RUnlock()

	v, err, _ := g.group.Do("authorize", func() (interface{}, error) {
		g.setState(StateAuthorizing, nil)
		// detached so one cancelled request does not fail the callers sharing this attempt
		actx := context.WithoutCancel(ctx)
		svc, err := g.dial(actx)
		if err == nil {
			err = g.ensureTabs(actx, svc)
		}
		if err != nil {
			g.setState(StateUninitialized, nil)
			g.log.Error().Err(err).Msg("sheets authorization failed")
			return nil, fmt.Errorf("authorize sheets client: %w", err)
		}
		g.setState(StateReady, svc)
		g.log.Info().Str("spreadsheet", g.cfg.SpreadsheetID).Msg("sheets client ready")
		return svc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gsheets.Service), nil
}

func (g *Google) setState(state ClientState, svc *gsheets.Service) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
	g.svc = svc
}

func (g *Google) dialServiceAccount(ctx context.Context) (*gsheets.Service, error) {
	if g.cfg.ClientEmail == "" || g.cfg.PrivateKey == "" {
		return nil, errors.New("missing service account credentials")
	}
	conf := &jwt.Config{
		Email:      g.cfg.ClientEmail,
		PrivateKey: []byte(g.cfg.PrivateKey),
		Scopes:     []string{gsheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	source := conf.TokenSource(ctx)
	token, err := source.Token()
	if err != nil {
		return nil, err
	}
	return gsheets.NewService(ctx, option.WithTokenSource(oauth2.ReuseTokenSource(token, source)))
}

func (g *Google) ensureTabs(ctx context.Context, svc *gsheets.Service) error {
	if len(g.cfg.Tabs) == 0 {
		return nil
	}
	doc, err := svc.Spreadsheets.Get(g.cfg.SpreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return err
	}
	existing := map[string]bool{}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}
	var requests []*gsheets.Request
	for _, tab := range g.cfg.Tabs {
		if existing[tab] {
			continue
		}
		existing[tab] = true
		requests = append(requests, &gsheets.Request{
			AddSheet: &gsheets.AddSheetRequest{Properties: &gsheets.SheetProperties{Title: tab}},
		})
		g.log.Info().Str("sheet", tab).Msg("creating missing sheet")
	}
	if len(requests) == 0 {
		return nil
	}
	_, err = svc.Spreadsheets.BatchUpdate(g.cfg.SpreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	return err
}

func (g *Google) BulkRead(ctx context.Context, sheet string) ([][]string, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(g.cfg.SpreadsheetID, quoteSheet(sheet)).
		MajorDimension("ROWS").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return toGrid(resp.Values), nil
}

func (g *Google) Append(ctx context.Context, sheet string, row []string) error {
	svc, err := g.service(ctx)
	if err != nil {
		return err
	}
	body := &gsheets.ValueRange{Values: [][]interface{}{toCells(row)}}
	_, err = svc.Spreadsheets.Values.Append(g.cfg.SpreadsheetID, quoteSheet(sheet)+"!A1", body).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	return nil
}

func (g *Google) ReadRange(ctx context.Context, sheet string, rng Range) ([][]string, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	svc, err := g.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(g.cfg.SpreadsheetID, rng.A1(sheet)).
		MajorDimension("ROWS").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", rng.A1(sheet), err)
	}
	return toGrid(resp.Values), nil
}

func (g *Google) UpdateRange(ctx context.Context, sheet string, rng Range, values [][]string) error {
	if err := rng.Validate(); err != nil {
		return err
	}
	svc, err := g.service(ctx)
	if err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(values))
	for _, row := range values {
		rows = append(rows, toCells(row))
	}
	_, err = svc.Spreadsheets.Values.Update(g.cfg.SpreadsheetID, rng.A1(sheet), &gsheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update range %s: %w", rng.A1(sheet), err)
	}
	return nil
}

func toGrid(values [][]interface{}) [][]string {
	grid := make([][]string, 0, len(values))
	for _, raw := range values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		grid = append(grid, row)
	}
	return grid
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardleague/internal/domain"
	"cardleague/internal/league"

	"github.com/rs/zerolog"
)

// LeagueServer exposes the engine's commands as a JSON-over-HTTP surface
// for the UI collaborator. The UI owns no simulation state; every route
// maps 1:1 onto a service method.
type LeagueServer struct {
	svc    *league.Service
	logger zerolog.Logger
}

func New(svc *league.Service, logger zerolog.Logger) *LeagueServer {
	return &LeagueServer{svc: svc, logger: logger}
}

func (s *LeagueServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /league/reset", s.handleReset)
	mux.HandleFunc("POST /league/save", s.handleSave)
	mux.HandleFunc("POST /league/advance-week", s.handleAdvanceWeek)
	mux.HandleFunc("POST /league/run-playoffs", s.handleRunPlayoffs)
	mux.HandleFunc("POST /league/finish-season", s.handleFinishSeason)
	mux.HandleFunc("POST /league/run-season", s.handleRunSeason)
	mux.HandleFunc("POST /league/trade", s.handleTrade)
	mux.HandleFunc("POST /league/shop/purchase", s.handlePurchase)
	mux.HandleFunc("GET /league/shop", s.handleShop)
	mux.HandleFunc("GET /league/standings", s.handleStandings)
	mux.HandleFunc("GET /league/state", s.handleState)
	mux.HandleFunc("GET /league/history", s.handleHistory)
	mux.HandleFunc("GET /league/hof", s.handleHOF)
	mux.HandleFunc("GET /league/records", s.handleRecords)
	return mux
}

func (s *LeagueServer) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"status": "reset"})
}

func (s *LeagueServer) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Save(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"status": "saved"})
}

func (s *LeagueServer) handleAdvanceWeek(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.AdvanceWeek()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, report)
}

func (s *LeagueServer) handleRunPlayoffs(w http.ResponseWriter, r *http.Request) {
	playoffs, err := s.svc.RunPlayoffs()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, playoffs)
}

func (s *LeagueServer) handleFinishSeason(w http.ResponseWriter, r *http.Request) {
	archive, err := s.svc.FinishSeason()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, archive)
}

func (s *LeagueServer) handleRunSeason(w http.ResponseWriter, r *http.Request) {
	archive, err := s.svc.RunSeason()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, archive)
}

type tradeRequest struct {
	TeamA   string `json:"team_a"`
	CardOut string `json:"card_out"`
	TeamB   string `json:"team_b"`
	CardIn  string `json:"card_in"`
}

func (s *LeagueServer) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.svc.ProposeTrade(req.TeamA, req.CardOut, req.TeamB, req.CardIn); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"status": "trade executed"})
}

type purchaseRequest struct {
	Team   string `json:"team"`
	Item   string `json:"item"`
	Target string `json:"target,omitempty"`
}

func (s *LeagueServer) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.svc.PurchaseShopItem(req.Team, req.Item, req.Target); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"status": "purchased"})
}

func (s *LeagueServer) handleShop(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.svc.ShopCatalog())
}

func (s *LeagueServer) handleStandings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.svc.Standings())
}

func (s *LeagueServer) handleState(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.StateJSON()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func (s *LeagueServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.svc.History())
}

func (s *LeagueServer) handleHOF(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.svc.HOF())
}

func (s *LeagueServer) handleRecords(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.svc.Records())
}

func (s *LeagueServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps engine error kinds onto HTTP statuses: unknown references
// are 404, rule violations 409, everything else 500.
func (s *LeagueServer) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var notFound *domain.NotFoundError
	var capErr *domain.CapExceededError
	var tradeErr *domain.TradeLimitError
	var phaseErr *domain.InvalidPhaseError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &capErr), errors.As(err, &tradeErr), errors.As(err, &phaseErr):
		status = http.StatusConflict
	}

	s.logger.Warn().Err(err).Int("status", status).Msg("command failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

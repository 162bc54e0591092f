package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"svw.info/knucklebones/internal/domain"
	"svw.info/knucklebones/internal/usecase"
)

type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/move", h.handleMove)
	r.Post("/api/analyze", h.handleAnalyze)
	r.Post("/api/hint", h.handleHint)
	r.Post("/api/validate", h.handleValidate)
	r.Post("/api/generate", h.handleGenerate)
	r.Route("/api/positions", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleSave)
		r.Get("/{id}", h.handleLoad)
		r.Post("/{id}/move", h.handleSavedMove)
	})
}

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResp{Error: err.Error()})
}

// decode reads a JSON body into v. An empty body is allowed when allowEmpty.
func decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
	return false
}

// ---- Move / Analyze ----

type moveReq struct {
	Own        [][]int `json:"own"`
	Opponent   [][]int `json:"opponent"`
	Die        int     `json:"die"`
	Difficulty string  `json:"difficulty,omitempty"`
}

func (m moveReq) boards() (domain.Board, domain.Board, error) {
	own, err := domain.BoardFromSlices(m.Own)
	if err != nil {
		return domain.Board{}, domain.Board{}, err
	}
	opp, err := domain.BoardFromSlices(m.Opponent)
	if err != nil {
		return domain.Board{}, domain.Board{}, err
	}
	return own, opp, nil
}

type moveResp struct {
	Column     int    `json:"column"`
	Difficulty string `json:"difficulty"`
	DurationMs int64  `json:"durationMs"`
	Nodes      int    `json:"nodes"`
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if !decode(w, r, &req, false) {
		return
	}
	own, opp, err := req.boards()
	if err != nil {
		writeError(w, err)
		return
	}
	diff := domain.ParseDifficulty(req.Difficulty)
	col, st, err := h.UC.Choose(r.Context(), own, opp, req.Die, diff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResp{
		Column:     col,
		Difficulty: diff.String(),
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
	})
}

type analyzeResp struct {
	Difficulty  string              `json:"difficulty"`
	Evaluations []domain.ColumnEval `json:"evaluations"`
	DurationMs  int64               `json:"durationMs"`
	Nodes       int                 `json:"nodes"`
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if !decode(w, r, &req, false) {
		return
	}
	own, opp, err := req.boards()
	if err != nil {
		writeError(w, err)
		return
	}
	diff := domain.ParseDifficulty(req.Difficulty)
	evals, st, err := h.UC.Analyze(r.Context(), own, opp, req.Die, diff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResp{
		Difficulty:  diff.String(),
		Evaluations: evals,
		DurationMs:  st.Duration.Milliseconds(),
		Nodes:       st.Nodes,
	})
}

// ---- Hint ----

type hintResp struct {
	Found bool         `json:"found"`
	Hint  *domain.Hint `json:"hint,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if !decode(w, r, &req, false) {
		return
	}
	own, opp, err := req.boards()
	if err != nil {
		writeError(w, err)
		return
	}
	hh, ok, err := h.UC.Hint(r.Context(), own, opp, req.Die)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := hintResp{Found: ok}
	if ok {
		resp.Hint = &hh
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---- Validate ----

type validateReq struct {
	Board [][]int `json:"board"`
}
type validateResp struct {
	OK       bool               `json:"ok"`
	Problems []domain.SlotCoord `json:"problems,omitempty"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if !decode(w, r, &req, false) {
		return
	}
	b, err := domain.BoardFromSlices(req.Board)
	if err != nil {
		writeError(w, err)
		return
	}
	ok, problems, err := h.UC.Validate(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResp{OK: ok, Problems: problems})
}

// ---- Generate ----

type generateReq struct {
	Difficulty string `json:"difficulty,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
}

type generateResp struct {
	Position   *domain.Position `json:"position"`
	DurationMs int64            `json:"durationMs"`
	Nodes      int              `json:"nodes"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if !decode(w, r, &req, true) {
		return
	}
	p, st, err := h.UC.Generate(r.Context(), req.Seed, domain.ParseDifficulty(req.Difficulty))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResp{
		Position:   p,
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
	})
}

// ---- Save / Load / List ----

type saveReq struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
	Seed       int64   `json:"seed,omitempty"`
	Own        [][]int `json:"own"`
	Opponent   [][]int `json:"opponent"`
	Die        int     `json:"die"`
}

type saveResp struct {
	ID string `json:"id"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveReq
	if !decode(w, r, &req, false) {
		return
	}
	own, opp, err := moveReq{Own: req.Own, Opponent: req.Opponent}.boards()
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Die < 1 || req.Die > domain.Faces {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "die must be between 1 and 6"})
		return
	}
	p := &domain.Position{
		ID:         req.ID,
		Name:       req.Name,
		Notes:      req.Notes,
		Difficulty: domain.ParseDifficulty(req.Difficulty),
		Seed:       req.Seed,
		Own:        own,
		Opponent:   opp,
		Die:        uint8(req.Die),
	}
	if err := h.UC.Save(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saveResp{ID: p.ID})
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	p, err := h.UC.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type listResp struct {
	Positions []domain.PositionMeta `json:"positions"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ps, err := h.UC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResp{Positions: ps})
}

type savedMoveResp struct {
	Position *domain.Position `json:"position"`
	moveResp
}

func (h *Handler) handleSavedMove(w http.ResponseWriter, r *http.Request) {
	override := r.URL.Query().Get("difficulty")
	p, col, st, err := h.UC.ChooseSaved(r.Context(), chi.URLParam(r, "id"), override)
	if err != nil {
		writeError(w, err)
		return
	}
	diff := p.Difficulty
	if override != "" {
		diff = domain.ParseDifficulty(override)
	}
	writeJSON(w, http.StatusOK, savedMoveResp{
		Position: p,
		moveResp: moveResp{
			Column:     col,
			Difficulty: diff.String(),
			DurationMs: st.Duration.Milliseconds(),
			Nodes:      st.Nodes,
		},
	})
}

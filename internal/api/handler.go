package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"passkey-wallet-gateway/internal/transfer"
)

// Handler exposes the wallet workflows over HTTP, one route subtree per
// integration mode.
type Handler struct {
	workflows map[string]*Workflow
	// baseCtx outlives individual requests: poll loops and in-flight
	// signing ceremonies must not die with the request that started them.
	baseCtx context.Context
	logger  *zerolog.Logger
}

func NewHandler(baseCtx context.Context, workflows map[string]*Workflow, logger *zerolog.Logger) *Handler {
	return &Handler{
		workflows: workflows,
		baseCtx:   baseCtx,
		logger:    logger,
	}
}

type transferRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type errorBody struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	MaxSendable string `json:"maxSendableSol,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (h *Handler) workflow(w http.ResponseWriter, r *http.Request) (*Workflow, bool) {
	mode := chi.URLParam(r, "mode")
	wf, ok := h.workflows[mode]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{
			Kind:    "unknown_mode",
			Message: "unknown integration mode " + mode,
		}})
		return nil, false
	}
	return wf, true
}

// Connect handles POST /api/wallet/{mode}/connect
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	account, err := wf.Provider.Connect(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Str("mode", wf.Provider.Name()).Msg("Connect failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: errorBody{
			Kind:    string(transfer.Classify(err).Kind),
			Message: "wallet connection failed",
		}})
		return
	}

	// The poll loop runs on the server context, not the request's.
	wf.Tracker.Watch(h.baseCtx, account)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mode":    wf.Provider.Name(),
		"state":   wf.Provider.State(),
		"account": account.String(),
	})
}

// Disconnect handles POST /api/wallet/{mode}/disconnect. Balance goes back
// to unknown and any recorded outcome is discarded.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	wf.Tracker.Unwatch()
	if err := wf.Provider.Disconnect(r.Context()); err != nil {
		h.logger.Warn().Err(err).Str("mode", wf.Provider.Name()).Msg("Disconnect failed")
	}
	wf.ClearOutcome()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mode":  wf.Provider.Name(),
		"state": wf.Provider.State(),
	})
}

// Balance handles GET /api/wallet/{mode}/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	lamports, known := wf.Tracker.Balance()
	resp := map[string]interface{}{
		"known": known,
	}
	if known {
		resp["lamports"] = lamports
		resp["sol"] = transfer.FormatSOL(lamports)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Status handles GET /api/wallet/{mode}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	resp := map[string]interface{}{
		"mode":  wf.Provider.Name(),
		"state": wf.Provider.State(),
	}
	if account, connected := wf.Provider.Account(); connected {
		resp["account"] = account.String()
	}
	if lamports, known := wf.Tracker.Balance(); known {
		resp["lamports"] = lamports
		resp["sol"] = transfer.FormatSOL(lamports)
	}
	if outcome := wf.LastOutcome(); outcome != nil {
		if outcome.Err != nil {
			resp["lastError"] = errorBodyFrom(outcome.Err)
		} else {
			resp["lastTransfer"] = outcome
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Transfer handles POST /api/wallet/{mode}/transfer. Validation failures
// never reach the provider; submission failures come back classified. One
// attempt per workflow at a time.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Kind:    "invalid_request",
			Message: "invalid JSON body",
		}})
		return
	}

	if !wf.Begin() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: errorBody{
			Kind:    "submission_in_flight",
			Message: "a submission is already in flight for this wallet",
		}})
		return
	}
	defer wf.End()

	lamports, known := wf.Tracker.Balance()
	validated, verr := transfer.Validate(req.Recipient, req.Amount, lamports, known)
	if verr != nil {
		writeJSON(w, statusForKind(verr.Kind), errorResponse{Error: errorBodyFrom(verr)})
		return
	}

	attemptID := uuid.New()
	h.logger.Info().
		Str("attempt", attemptID.String()).
		Str("mode", wf.Provider.Name()).
		Str("recipient", validated.Recipient.String()).
		Uint64("lamports", validated.Lamports).
		Msg("Submitting transfer")

	// The ceremony keeps running even if this client goes away; the
	// outcome is recorded and re-surfaced by the next status poll.
	outcome := wf.Submitter.Submit(h.baseCtx, validated, wf.Provider)
	wf.RecordOutcome(outcome)

	if outcome.Err != nil {
		writeJSON(w, statusForKind(outcome.Err.Kind), errorResponse{Error: errorBodyFrom(outcome.Err)})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attemptId":   attemptID.String(),
		"signature":   outcome.Signature,
		"explorerUrl": outcome.ExplorerURL,
		"submittedAt": outcome.SubmittedAt,
	})
}

func errorBodyFrom(err *transfer.Error) errorBody {
	body := errorBody{
		Kind:    string(err.Kind),
		Message: err.UserMessage(),
	}
	if err.MaxSendable != nil {
		body.MaxSendable = transfer.FormatSOL(*err.MaxSendable)
	}
	return body
}

func statusForKind(kind transfer.Kind) int {
	switch kind {
	case transfer.KindInvalidRecipient, transfer.KindInvalidAmount:
		return http.StatusBadRequest
	case transfer.KindNotConnected, transfer.KindInsufficientBalance, transfer.KindBelowReserveThreshold:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

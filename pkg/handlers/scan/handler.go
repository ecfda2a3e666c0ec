package scan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/stalkiq/dzera-sub000/pkg/models/api"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	scansvc "github.com/stalkiq/dzera-sub000/pkg/services/scan"
)

const defaultScanTimeout = 120 * time.Second

// Scanner runs a full scan for one credential pair.
type Scanner interface {
	Scan(ctx context.Context, creds domain.Credentials, opts domain.ScanOptions) (*domain.ScanResult, error)
}

// Chatter answers a conversation transcript, optionally grounded in scan
// context.
type Chatter interface {
	Complete(ctx context.Context, messages []api.ChatMessage, scanContext string) (string, error)
}

// Decryptor recovers a credential pair from an encrypted blob.
type Decryptor interface {
	Decrypt(ctx context.Context, blob, keyID string) (domain.Credentials, error)
}

type Handler struct {
	scanner        Scanner
	chatter        Chatter
	decryptor      Decryptor
	scanTimeout    time.Duration
	defaultRegions []string
}

func NewHandler(
	scanner Scanner,
	chatter Chatter,
	decryptor Decryptor,
	scanTimeout time.Duration,
	defaultRegions []string,
) *Handler {
	if scanTimeout == 0 {
		scanTimeout = defaultScanTimeout
	}
	return &Handler{
		scanner:        scanner,
		chatter:        chatter,
		decryptor:      decryptor,
		scanTimeout:    scanTimeout,
		defaultRegions: defaultRegions,
	}
}

// Scan handles POST /api/v1/scan. A scan that loses some probes still
// returns 200 with a partial result; only credential problems and
// top-level failures are surfaced as errors.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}

	creds, ok := h.resolveCredentials(w, r, req)
	if !ok {
		return
	}

	var opts domain.ScanOptions
	if req.Region != "" {
		opts.Regions = []string{req.Region}
	} else {
		opts.Regions = h.defaultRegions
	}

	ctx, cancel := context.WithTimeout(ctx, h.scanTimeout)
	defer cancel()

	result, err := h.scanner.Scan(ctx, creds, opts)
	if err != nil {
		if errors.Is(err, scansvc.ErrInvalidCredentials) {
			logger.Warn().Err(err).Msg("scan rejected: invalid credentials")
			writeError(w, http.StatusUnauthorized, "invalid_credentials",
				"the provided AWS credentials were rejected")
			return
		}
		logger.Error().Err(err).Msg("scan failed")
		writeError(w, http.StatusInternalServerError, "scan_failed", "the scan could not be completed")
		return
	}

	logger.Info().
		Str("scan_id", result.ScanID).
		Int("findings", len(result.Findings)).
		Float64("monthly_total", result.TotalEstimatedMonthlyCost).
		Msg("scan completed")

	writeJSON(w, http.StatusOK, toAPIResult(result))
}

// Chat handles POST /api/v1/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "missing_messages", "at least one message is required")
		return
	}

	reply, err := h.chatter.Complete(ctx, req.Messages, req.ScanContext)
	if err != nil {
		logger.Error().Err(err).Msg("chat completion failed")
		writeError(w, http.StatusInternalServerError, "chat_failed", "the chat request could not be completed")
		return
	}

	writeJSON(w, http.StatusOK, api.ChatResponse{Message: reply})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolveCredentials extracts a usable credential pair from the request,
// decrypting the blob form when present. It writes the error response
// itself and returns ok=false when the request cannot proceed.
func (h *Handler) resolveCredentials(
	w http.ResponseWriter,
	r *http.Request,
	req api.ScanRequest,
) (domain.Credentials, bool) {
	logger := zerolog.Ctx(r.Context())

	if req.EncryptedCredentials != "" {
		if h.decryptor == nil {
			writeError(w, http.StatusInternalServerError, "decryption_unavailable",
				"encrypted credentials are not supported by this deployment")
			return domain.Credentials{}, false
		}
		creds, err := h.decryptor.Decrypt(r.Context(), req.EncryptedCredentials, req.KeyID)
		if err != nil {
			logger.Error().Err(err).Msg("credential decryption failed")
			writeError(w, http.StatusInternalServerError, "decryption_failed",
				"the encrypted credentials could not be decrypted")
			return domain.Credentials{}, false
		}
		return creds, true
	}

	if req.AccessKeyID == "" || req.SecretAccessKey == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials",
			"accessKeyId and secretAccessKey are required")
		return domain.Credentials{}, false
	}

	return domain.Credentials{
		AccessKeyID:     req.AccessKeyID,
		SecretAccessKey: req.SecretAccessKey,
	}, true
}

func toAPIResult(result *domain.ScanResult) api.ScanResult {
	findings := make([]api.Finding, 0, len(result.Findings))
	for _, f := range result.Findings {
		findings = append(findings, api.Finding{
			Service:              string(f.Service),
			ResourceID:           f.ResourceID,
			ResourceName:         f.ResourceName,
			Region:               f.Region,
			Severity:             string(f.Severity),
			Title:                f.Title,
			Description:          f.Description,
			Suggestion:           f.Suggestion,
			EstimatedMonthlyCost: f.EstimatedMonthlyCost,
			EstimatedHourlyCost:  f.EstimatedHourlyCost,
			ActionURL:            f.ActionURL,
		})
	}

	return api.ScanResult{
		ScanID:                    result.ScanID,
		Findings:                  findings,
		TotalEstimatedMonthlyCost: result.TotalEstimatedMonthlyCost,
		TotalEstimatedHourlyCost:  result.TotalEstimatedHourlyCost,
		StartedAt:                 result.StartedAt,
		FinishedAt:                result.FinishedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.Error{Error: code, Message: message})
}

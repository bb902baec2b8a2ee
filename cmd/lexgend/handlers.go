package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	lexgen "github.com/dekarrin/lexgen"
	"github.com/dekarrin/lexgen/internal/emit"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type server struct {
	auth  *sessionMinter
	audit *auditStore
}

type sessionRequest struct {
	APIKey string `json:"api_key"`
}

type sessionResponse struct {
	Token string `json:"token"`
}

func (s *server) postSession(w http.ResponseWriter, req *http.Request) {
	var body sessionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if !s.auth.checkAPIKey(body.APIKey) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
		return
	}

	tok, err := s.auth.mint("api-client")
	if err != nil {
		log.Printf("mint session token: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: tok})
}

type compileResponse struct {
	ID          string              `json:"id"`
	Overshadows []lexgen.Overshadow `json:"overshadows,omitempty"`
	Table       string              `json:"table_go_source"`
}

type diagnosticResponse struct {
	Error string `json:"error"`
}

// postCompile accepts a rule-file body, compiles it, and responds with
// either the compiled table as Go source or a diagnostic.
func (s *server) postCompile(w http.ResponseWriter, req *http.Request) {
	subject, _ := req.Context().Value(authSubject).(string)

	source, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	id := uuid.New().String()
	hash := ruleHash(source)

	c, err := lexgen.NewCompiler(string(source))
	if err == nil {
		var result *lexgen.Result
		result, err = c.Compile()
		if err == nil {
			recordErr := s.audit.record(req.Context(), id, subject, hash, true, len(result.Overshadows), "")
			if recordErr != nil {
				log.Printf("audit log write failed: %s", recordErr)
			}

			var buf bytes.Buffer
			if emitErr := emit.GoSource(&buf, "lextab", "Table", result.Def); emitErr != nil {
				http.Error(w, "failed to emit table", http.StatusInternalServerError)
				return
			}

			writeJSON(w, http.StatusOK, compileResponse{
				ID:          id,
				Overshadows: result.Overshadows,
				Table:       buf.String(),
			})
			return
		}
	}

	recordErr := s.audit.record(req.Context(), id, subject, hash, false, 0, err.Error())
	if recordErr != nil {
		log.Printf("audit log write failed: %s", recordErr)
	}
	writeJSON(w, http.StatusUnprocessableEntity, diagnosticResponse{Error: err.Error()})
}

func ruleHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write json response: %s", err)
	}
}

type compileStatusResponse struct {
	ID              string `json:"id"`
	Requester       string `json:"requester"`
	RuleHash        string `json:"rule_hash"`
	SubmittedAt     int64  `json:"submitted_at"`
	Success         bool   `json:"success"`
	OvershadowCount int    `json:"overshadow_count"`
	Detail          string `json:"detail,omitempty"`
}

// getCompile looks up a previously recorded compile request by id from the
// audit log.
func (s *server) getCompile(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	rec, err := s.audit.lookup(req.Context(), id)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, compileStatusResponse{
		ID:              rec.ID,
		Requester:       rec.Requester,
		RuleHash:        rec.RuleHash,
		SubmittedAt:     rec.SubmittedAt,
		Success:         rec.Success,
		OvershadowCount: rec.OvershadowCount,
		Detail:          rec.Detail,
	})
}

package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdgilhuly/agent_evals/pkg/dataset"
	"github.com/jdgilhuly/agent_evals/pkg/eval"
	"github.com/jdgilhuly/agent_evals/pkg/results"
)

// APIResponse is the envelope for every endpoint. On failure, ErrorKind
// identifies which layer failed so clients can distinguish a bad dataset
// from a model outage.
type APIResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// Error kinds exposed to clients.
const (
	ErrKindDataset      = "dataset_error"
	ErrKindInvocation   = "invocation_error"
	ErrKindPersistence  = "persistence_error"
	ErrKindPresentation = "presentation_error"
)

// runRequest is the optional POST body for trigger endpoints.
type runRequest struct {
	Model string `json:"model"`
}

func (s *Server) runHandler(kind dataset.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req runRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, APIResponse{
					Success:   false,
					Error:     "invalid request body: " + err.Error(),
					ErrorKind: ErrKindPresentation,
				})
				return
			}
		}

		report, err := s.runner.Run(c.Request.Context(), kind, req.Model, nil)
		if err != nil {
			status, kind := classify(err)
			resp := APIResponse{
				Success:   false,
				Error:     err.Error(),
				ErrorKind: kind,
			}
			// A persistence failure still carries the computed results.
			if report != nil {
				resp.Data = report
			}
			c.JSON(status, resp)
			return
		}

		c.JSON(http.StatusOK, APIResponse{Success: true, Data: report})
	}
}

func (s *Server) handleHistory(c *gin.Context) {
	entries, err := s.runner.History()
	if err != nil {
		status, kind := classify(err)
		c.JSON(status, APIResponse{Success: false, Error: err.Error(), ErrorKind: kind})
		return
	}
	if entries == nil {
		entries = []results.HistoryEntry{}
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: entries})
}

func (s *Server) handleExamples(c *gin.Context) {
	kind := dataset.KindHandoff
	if c.Query("eval_type") == "tool" || c.Query("eval_type") == string(dataset.KindToolCall) {
		kind = dataset.KindToolCall
	}

	cases, err := s.runner.Examples(kind)
	if err != nil {
		status, errKind := classify(err)
		c.JSON(status, APIResponse{Success: false, Error: err.Error(), ErrorKind: errKind})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: cases})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// classify maps a pipeline error to an HTTP status and error kind. The kind
// is never masked: clients always learn which layer failed.
func classify(err error) (int, string) {
	var dsErr *dataset.Error
	if errors.As(err, &dsErr) {
		return http.StatusUnprocessableEntity, ErrKindDataset
	}
	var invErr *eval.InvocationError
	if errors.As(err, &invErr) {
		return http.StatusBadGateway, ErrKindInvocation
	}
	var wErr *results.WriteError
	if errors.As(err, &wErr) {
		return http.StatusInternalServerError, ErrKindPersistence
	}
	return http.StatusInternalServerError, ErrKindPresentation
}

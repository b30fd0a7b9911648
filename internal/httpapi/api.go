package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/remindr/internal/dispatch"
	"github.com/dmitrymomot/remindr/internal/model"
	"github.com/dmitrymomot/remindr/internal/render"
)

type sendEmailsResponse struct {
	Results   []dispatch.Result `json:"results"`
	Processed int               `json:"processed"`
}

// sendEmails runs one batch. Item failures are part of a 200 response;
// only a failed batch is an error.
func (s *Server) sendEmails(w http.ResponseWriter, r *http.Request) error {
	report, err := s.dispatcher.Run(r.Context(), s.now())
	if err != nil {
		return errInternal("Failed to process scheduled emails", err)
	}

	results := report.Results
	if results == nil {
		results = []dispatch.Result{}
	}
	writeJSON(w, http.StatusOK, sendEmailsResponse{Processed: report.Processed, Results: results})
	return nil
}

// previewBlock lets a missing order be told apart from order 0.
type previewBlock struct {
	model.Block
	Order *int `json:"order"`
}

type previewRequest struct {
	Blocks []previewBlock `json:"blocks"`
}

type previewResponse struct {
	HTML string `json:"html"`
}

func (s *Server) previewTemplate(w http.ResponseWriter, r *http.Request) error {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Blocks == nil {
		return errBadRequest("Blocks array is required")
	}

	blocks := make([]model.Block, len(req.Blocks))
	for i, pb := range req.Blocks {
		b := pb.Block
		b.Order = i
		if pb.Order != nil {
			b.Order = *pb.Order
		}
		if b.ID == "" {
			b.ID = fmt.Sprintf("block-%d", i)
		}
		blocks[i] = b
	}

	html := render.RenderHTML(blocks, render.SampleVariables(s.now(), ""))
	writeJSON(w, http.StatusOK, previewResponse{HTML: html})
	return nil
}

type testSendRequest struct {
	Email        string        `json:"email"`
	Subject      string        `json:"subject"`
	Body         string        `json:"body"`
	HTMLBody     string        `json:"htmlBody"`
	Blocks       []model.Block `json:"blocks"`
	IsHTML       bool          `json:"isHtml"`
	IsBlockBased bool          `json:"isBlockBased"`
}

func (req testSendRequest) template() *model.Template {
	t := model.Record{
		Name:         "test send",
		Subject:      req.Subject,
		Body:         req.Body,
		HTMLBody:     req.HTMLBody,
		Blocks:       req.Blocks,
		IsHTML:       req.IsHTML,
		IsBlockBased: req.IsBlockBased,
	}.Template()
	return &t
}

var emptyContentMessage = map[model.Mode]string{
	model.ModeText:   "Body is required for text-based templates",
	model.ModeHTML:   "HTML body is required for HTML templates",
	model.ModeBlocks: "At least one block is required for block-based templates",
}

type testSendResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (s *Server) testSendTemplate(w http.ResponseWriter, r *http.Request) error {
	var req testSendRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	to := model.NormalizeEmail(req.Email)
	if to == "" || strings.TrimSpace(req.Subject) == "" {
		return errBadRequest("Email and subject are required")
	}
	if !model.PlausibleEmail(to) {
		return errBadRequest("Invalid email address")
	}
	if req.IsBlockBased && !req.IsHTML && req.Blocks == nil {
		return errBadRequest("Blocks array is required for block-based templates")
	}

	tpl := req.template()
	msg, err := s.resolver.Resolve(tpl, render.SampleVariables(s.now(), to))
	if err != nil {
		if errors.Is(err, render.ErrEmptyContent) {
			return errBadRequest(emptyContentMessage[tpl.Mode()])
		}
		return errInternal("Failed to render test email", err)
	}

	if err := s.mailer.Send(r.Context(), dispatch.Message{
		To:      to,
		Subject: msg.Subject,
		HTML:    msg.Body,
		Text:    msg.Text,
	}); err != nil {
		return errInternal("Failed to send test email", err)
	}

	writeJSON(w, http.StatusOK, testSendResponse{Success: true, Message: "Test email sent to " + to})
	return nil
}

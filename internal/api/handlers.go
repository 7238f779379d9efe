package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/linker"
	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
)

// Runner executes link-suggestion runs.
type Runner interface {
	Run(ctx context.Context, req linker.Request) (*linker.Result, error)
	KeyConfigured() bool
}

// LinkHandler serves the form and the JSON API.
type LinkHandler struct {
	runner  Runner
	service string
}

// NewLinkHandler creates a LinkHandler.
func NewLinkHandler(runner Runner, serviceName string) *LinkHandler {
	return &LinkHandler{runner: runner, service: serviceName}
}

// linkForm is the HTML form submission.
type linkForm struct {
	SitemapURL  string `form:"sitemap_url"`
	MainSubject string `form:"main_subject"`
	ArticleText string `form:"article_text"`
	APIKey      string `form:"api_key"`
}

// pageView is the data rendered by index.html.
type pageView struct {
	Service       string
	KeyConfigured bool
	Form          linkForm
	Result        *linker.Result
	Error         string
	Warning       string
}

// LinkResponse is the JSON body of a successful run.
type LinkResponse struct {
	*linker.Result
	Message string `json:"message,omitempty"`
}

// Index renders the empty form.
func (h *LinkHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.view(linkForm{}))
}

// Submit runs the pipeline for a form post and renders the outcome.
func (h *LinkHandler) Submit(c *gin.Context) {
	var form linkForm
	if err := c.ShouldBind(&form); err != nil {
		view := h.view(form)
		view.Error = "Invalid form submission."
		c.HTML(http.StatusBadRequest, "index.html", view)
		return
	}

	// The key is never echoed back into the page.
	view := h.view(linkForm{
		SitemapURL:  form.SitemapURL,
		MainSubject: form.MainSubject,
		ArticleText: form.ArticleText,
	})

	result, err := h.runner.Run(c.Request.Context(), linker.Request{
		SitemapURL:  form.SitemapURL,
		MainSubject: form.MainSubject,
		ArticleText: form.ArticleText,
		APIKey:      form.APIKey,
	})
	if err != nil {
		status, resp := h.fail(c, err)
		view.Error = resp.Message
		c.HTML(status, "index.html", view)
		return
	}

	view.Result = result
	if result.NoMatches() {
		view.Warning = noMatchesMessage(result.MainSubject)
	}
	c.HTML(http.StatusOK, "index.html", view)
}

// SuggestLinks is the JSON equivalent of Submit.
func (h *LinkHandler) SuggestLinks(c *gin.Context) {
	var req linker.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.FromContext(c.Request.Context()).Debug("Invalid request body", logger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: "Invalid request body"})
		return
	}

	result, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		status, resp := h.fail(c, err)
		c.JSON(status, resp)
		return
	}

	resp := LinkResponse{Result: result}
	if result.NoMatches() {
		resp.Message = noMatchesMessage(result.MainSubject)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LinkHandler) fail(c *gin.Context, err error) (int, ErrorResponse) {
	status, resp := mapError(err)

	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		log.Warn("Link suggestion failed", logger.Int("status", status), logger.String("code", resp.Error))
	} else {
		log.Debug("Link suggestion rejected", logger.String("code", resp.Error), logger.Error(err))
	}

	return status, resp
}

func (h *LinkHandler) view(form linkForm) pageView {
	return pageView{
		Service:       h.service,
		KeyConfigured: h.runner.KeyConfigured(),
		Form:          form,
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// errorHook appends uncaught script errors to the page body.
const errorHook = `<script>
window.onerror = function (msg) {
  document.body.innerHTML += "<pre style='color:red'>" + msg + "</pre>";
};
</script>`

// cssSampleMarkup is the body used when previewing a stylesheet on its own.
const cssSampleMarkup = `<h1>Heading</h1>
<p>Paragraph text with a <a href="#">link</a>.</p>
<button>Button</button>`

// RenderDocument assembles one HTML document from markup, style and script.
// Script errors are caught inside the document and shown in its body.
// RenderDocument собирает HTML-документ из разметки, стилей и скрипта.
func RenderDocument(html, css, js string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\" />\n<style>\n")
	sb.WriteString(css)
	sb.WriteString("\n</style>\n")
	sb.WriteString(errorHook)
	sb.WriteString("\n</head>\n<body>\n")
	sb.WriteString(html)
	sb.WriteString("\n<script>\ntry {\n")
	sb.WriteString(js)
	sb.WriteString("\n} catch (e) {\n  document.body.innerHTML += \"<pre style='color:red'>\" + e + \"</pre>\";\n}\n</script>\n</body>\n</html>\n")
	return sb.String()
}

// DocumentFor builds the preview document for a locally rendered language.
// Complete HTML documents are kept verbatim apart from the error hook.
func DocumentFor(lang Language, code string) (string, error) {
	switch lang {
	case LangHTML:
		if isCompleteDocument(code) {
			return withErrorHook(code), nil
		}
		return RenderDocument(code, "", ""), nil
	case LangCSS:
		return RenderDocument(cssSampleMarkup, code, ""), nil
	default:
		return "", fmt.Errorf("%w: %q is not rendered locally", ErrUnknownLanguage, lang)
	}
}

func isCompleteDocument(code string) bool {
	head := strings.ToLower(strings.TrimSpace(code))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}

func withErrorHook(doc string) string {
	idx := strings.LastIndex(strings.ToLower(doc), "</body>")
	if idx < 0 {
		return doc + "\n" + errorHook
	}
	return doc[:idx] + errorHook + "\n" + doc[idx:]
}

// Browser opens documents and URLs in a new browsing context.
type Browser interface {
	OpenDocument(doc string) error
	OpenURL(url string) error
}

// systemBrowser uses the platform browser. Its output is discarded so the
// terminal UI is not disturbed.
type systemBrowser struct{}

func newSystemBrowser() Browser {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return systemBrowser{}
}

func (systemBrowser) OpenDocument(doc string) error {
	return browser.OpenReader(strings.NewReader(doc))
}

func (systemBrowser) OpenURL(url string) error {
	return browser.OpenURL(url)
}

// PreviewServer serves the latest rendered document on a loopback address.
// The document is sandboxed by CSP so it cannot reach back into the host.
// PreviewServer раздаёт последний отрисованный документ по локальному адресу.
type PreviewServer struct {
	mu      sync.RWMutex
	doc     string
	version int
	router  chi.Router
	srv     *http.Server
	url     string
	logger  *zap.Logger
}

// NewPreviewServer creates a server with an empty document.
func NewPreviewServer(logger *zap.Logger) *PreviewServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	ps := &PreviewServer{
		doc:    RenderDocument("", "", ""),
		logger: logger,
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Get("/", ps.serveDocument)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ps.router = r
	return ps
}

// Handler exposes the router.
func (ps *PreviewServer) Handler() http.Handler {
	return ps.router
}

// Update replaces the served document.
func (ps *PreviewServer) Update(doc string) {
	ps.mu.Lock()
	ps.doc = doc
	ps.version++
	ps.mu.Unlock()
}

// Document returns the served document and its version.
func (ps *PreviewServer) Document() (string, int) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.doc, ps.version
}

func (ps *PreviewServer) serveDocument(w http.ResponseWriter, _ *http.Request) {
	doc, version := ps.Document()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "sandbox allow-scripts")
	w.Header().Set("X-Preview-Version", fmt.Sprint(version))
	_, _ = io.WriteString(w, doc)
}

// Start listens on addr and serves in the background.
func (ps *PreviewServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("preview listen %s: %w", addr, err)
	}
	ps.srv = &http.Server{
		Handler:           ps.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	ps.url = "http://" + ln.Addr().String() + "/"
	go func() {
		if err := ps.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ps.logger.Error("preview server stopped", zap.Error(err))
		}
	}()
	ps.logger.Info("preview server listening", zap.String("url", ps.url))
	return nil
}

// URL returns the address of a started server, or "".
func (ps *PreviewServer) URL() string {
	return ps.url
}

// Shutdown stops a started server.
func (ps *PreviewServer) Shutdown(ctx context.Context) error {
	if ps.srv == nil {
		return nil
	}
	return ps.srv.Shutdown(ctx)
}

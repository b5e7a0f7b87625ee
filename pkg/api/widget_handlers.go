package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/botdock/pkg/httputil"
)

var widgetTemplate = template.Must(template.New("widget").Parse(`(function() {
    const script = document.currentScript;
    const botId = script.getAttribute('data-bot-id');
    const frontendUrl = '{{js .FrontendURL}}';

    if (!botId) {
        console.error('ChatWidget: data-bot-id attribute is missing.');
        return;
    }

    const container = document.createElement('div');
    container.id = 'chat-widget-container';
    container.style.position = 'fixed';
    container.style.bottom = '20px';
    container.style.right = '20px';
    container.style.zIndex = '9999';
    container.style.width = '400px';
    container.style.height = '600px';
    container.style.boxShadow = '0 4px 12px rgba(0,0,0,0.15)';
    container.style.borderRadius = '12px';
    container.style.overflow = 'hidden';
    container.style.display = 'block';

    const iframe = document.createElement('iframe');
    iframe.src = frontendUrl + '/widget/' + encodeURIComponent(botId);
    iframe.style.width = '100%';
    iframe.style.height = '100%';
    iframe.style.border = 'none';

    container.appendChild(iframe);
    document.body.appendChild(container);
})();
`))

// WidgetHandlers serves the embeddable loader script
type WidgetHandlers struct {
	script []byte
}

// NewWidgetHandlers renders the loader once for frontendURL
func NewWidgetHandlers(frontendURL string) (*WidgetHandlers, error) {
	var buf bytes.Buffer
	err := widgetTemplate.Execute(&buf, struct{ FrontendURL string }{strings.TrimRight(frontendURL, "/")})
	if err != nil {
		return nil, fmt.Errorf("render widget loader: %w", err)
	}
	return &WidgetHandlers{script: buf.Bytes()}, nil
}

// RegisterRoutes registers widget routes
func (h *WidgetHandlers) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/widget.js", h.loader).Methods(http.MethodGet)
	public.HandleFunc("/widget", h.loader).Methods(http.MethodGet)
	public.HandleFunc("/widget/{botId}", h.botInfo).Methods(http.MethodGet)
}

// loader handles GET /widget.js
func (h *WidgetHandlers) loader(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(h.script)
}

// botInfo handles GET /widget/{botId}
func (h *WidgetHandlers) botInfo(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"botId": mux.Vars(r)["botId"]})
}

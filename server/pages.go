package server

import (
	"html/template"
	"net/http"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// The flow pages are the popup's terminal states. Each one notifies the
// opener window and closes itself, so the popup never hangs silently.

const successPageHTML = `<html>
<head><title>OAuth Web Flow Success Page</title></head>
<body>
<h1>Connected App Connection OK</h1>
<p>This window should close automatically. You can now return to the app</p>
<script>
    window.opener.postMessage('OK', '*');
    window.close();
</script>
</body>
</html>
`

// TODO: Only close the window on receipt of an ACK from the opener
var errorPageTemplate = template.Must(template.New("errorPage").Parse(`<html>
<head><title>OAuth Web Flow Error Page</title></head>
<body>
<h1>Connected App Connection Failed</h1>
<p>This window should close automatically. You can now return to the app</p>
<div class="error" id="errorText"></div>
<script>
    (function () {
        var error_message = {{.Message}};
        document.getElementById('errorText').appendChild(document.createTextNode(error_message));
        if (window.opener) {
            window.opener.postMessage({ error_message: error_message }, '*');
        }
        window.close();
    }());
</script>
</body>
</html>
`))

func (s *Server) renderSuccessPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", contentTypeHTML)
	_, _ = w.Write([]byte(successPageHTML))
}

func (s *Server) renderErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	if s.env == "DEV" {
		logError(r.Method, r.URL.Path, err.Error())
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("web flow failed")

	w.Header().Set("Content-Type", contentTypeHTML)
	if execErr := errorPageTemplate.Execute(w, struct{ Message string }{Message: errs.Reduce(err)}); execErr != nil {
		log.Error().Err(execErr).Msg("rendering error page")
	}
}

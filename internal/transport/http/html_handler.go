package http

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
)

// ServeUploadPage serves the upload form from webDir, falling back to
// a built-in page when no index.html exists on disk.
func ServeUploadPage(webDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		indexPath := filepath.Join(webDir, "index.html")
		if _, err := os.Stat(indexPath); os.IsNotExist(err) {
			serveBuiltinUploadPage(w)
			return
		}
		serveHTML(w, r, indexPath)
	}
}

// serveHTML serves an HTML file with security headers set
func serveHTML(w http.ResponseWriter, r *http.Request, filePath string) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tmpl, err := template.ParseFiles(filePath)
	if err != nil {
		http.Error(w, "Error loading page", http.StatusInternalServerError)
		return
	}

	if err := tmpl.Execute(w, nil); err != nil {
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

func serveBuiltinUploadPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(builtinUploadPage))
}

const builtinUploadPage = `<!DOCTYPE html>
<html>
<head>
    <title>StockPulse</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .panel { padding: 16px; margin: 16px 0; border: 1px solid #ccc; border-radius: 4px; }
    </style>
</head>
<body>
    <h1>StockPulse</h1>
    <div class="panel">
        <form action="/api/analyze" method="post" enctype="multipart/form-data">
            <p>Upload one or more OHLCV CSV files (Date,Open,High,Low,Close,Volume):</p>
            <input type="file" name="files" multiple accept=".csv,.xlsx">
            <button type="submit">Analyze</button>
        </form>
    </div>
    <h2>Endpoints</h2>
    <ul>
        <li><a href="/api/health">Health</a></li>
        <li><a href="/api/version">Version</a></li>
        <li><a href="/api/params">Analysis defaults</a></li>
        <li><a href="/metrics">Prometheus metrics</a></li>
    </ul>
</body>
</html>
`

// Package http serves the tutorial portal.
//
// Routes:
//   - Landing: GET /, POST /language, POST /language/reset
//   - Sections: GET /sections/{section}
//   - Documents: POST /sections/{section}/documents/{document}/expand|collapse
//   - Cells: POST /sections/{section}/documents/{document}/cells/{cell}
//   - Static files from the docs tree: GET /assets/{path...}
//   - Liveness: GET /healthz
//
// Visitors are tracked with a session cookie holding a random UUID; all
// interface state lives in the portal state repository under that id.
package http

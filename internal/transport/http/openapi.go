package http

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"quiz-battle-service/internal/domain"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	// SessionID is set when a session was created but its catalog failed to load.
	SessionID string `json:"sessionId,omitempty"`
}

type sessionPath struct {
	ID string `path:"id"`
}

type catalogPath struct {
	ID string `path:"id"`
}

type actionRequest struct {
	ID string `path:"id"`
	domain.Action
}

type wsQuery struct {
	SessionID string `query:"sessionId" required:"true"`
}

type imagePath struct {
	Name string `path:"name"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Quiz Battle API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Two-team trivia sessions: REST actions and a WebSocket update channel.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/catalogs/{id}
	getCatalog, _ := r.NewOperationContext(http.MethodGet, "/api/catalogs/{id}")
	getCatalog.SetSummary("Describe catalog")
	getCatalog.SetDescription("Lists the categories of a catalog with question counts and total points.")
	getCatalog.AddReqStructure(catalogPath{})
	getCatalog.AddRespStructure(CatalogResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getCatalog.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getCatalog.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getCatalog)

	// POST /api/sessions
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	postSession.SetSummary("Create session")
	postSession.SetDescription("Starts a game session and waits for its catalog to load.")
	postSession.AddReqStructure(CreateSessionRequest{})
	postSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postSession)

	// GET /api/sessions/{id}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}")
	getSession.SetSummary("Get session")
	getSession.SetDescription("Returns the current snapshot of a session.")
	getSession.AddReqStructure(sessionPath{})
	getSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// DELETE /api/sessions/{id}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{id}")
	deleteSession.SetSummary("End session")
	deleteSession.SetDescription("Removes a session and disconnects its WebSocket subscribers.")
	deleteSession.AddReqStructure(sessionPath{})
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteSession)

	// POST /api/sessions/{id}/actions
	postAction, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/actions")
	postAction.SetSummary("Apply action")
	postAction.SetDescription("Applies one game action. Rejected actions return 422 with the unchanged snapshot.")
	postAction.AddReqStructure(actionRequest{})
	postAction.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAction.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	postAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postAction)

	// GET /api/sessions/{id}/qr
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/qr")
	getQR.SetSummary("Session share code")
	getQR.SetDescription("PNG QR code linking to the session.")
	getQR.AddReqStructure(sessionPath{})
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQR)

	// GET /images/{name}
	getImage, _ := r.NewOperationContext(http.MethodGet, "/images/{name}")
	getImage.SetSummary("Question image")
	getImage.SetDescription("Serves a question image, redirecting to the placeholder when it is missing.")
	getImage.AddReqStructure(imagePath{})
	getImage.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("image/*"))
	getImage.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
	_ = r.AddOperation(getImage)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("Session channel")
	getWS.SetDescription("Upgrades to a WebSocket. The server sends a state message, then update messages; clients send action messages.")
	getWS.AddReqStructure(wsQuery{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

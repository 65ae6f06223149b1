package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gemmology-dev/crystal-api/internal/application/crystal"
	"github.com/gemmology-dev/crystal-api/internal/domain/cdl"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/prometheus"
	storageminio "github.com/gemmology-dev/crystal-api/internal/infrastructure/storage/minio"
	"github.com/gemmology-dev/crystal-api/internal/render/svg"
	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// CrystalHandler serves the validate, render, and export endpoints.
type CrystalHandler struct {
	svc     crystal.Service
	store   storageminio.Store // nil when artifact storage is disabled
	metrics *prometheus.Metrics
	logger  logging.Logger
}

// NewCrystalHandler creates a CrystalHandler.  store may be nil.
func NewCrystalHandler(svc crystal.Service, store storageminio.Store, metrics *prometheus.Metrics, logger logging.Logger) *CrystalHandler {
	return &CrystalHandler{svc: svc, store: store, metrics: metrics, logger: logger}
}

// ValidateRequest is the request body for POST /api/validate.
type ValidateRequest struct {
	CDL string `json:"cdl"`
}

// ValidatedForm is one flattened leaf form in the validate response.
type ValidatedForm struct {
	Miller string  `json:"miller"`
	Scale  float64 `json:"scale"`
}

// ValidatedParse is the parsed summary in the validate response.
type ValidatedParse struct {
	System     string          `json:"system"`
	PointGroup string          `json:"pointGroup"`
	FormsCount int             `json:"formsCount"`
	Forms      []ValidatedForm `json:"forms"`
}

// ValidateResponse is the response body for POST /api/validate.
type ValidateResponse struct {
	Valid  bool            `json:"valid"`
	Error  string          `json:"error,omitempty"`
	Parsed *ValidatedParse `json:"parsed,omitempty"`
}

// Validate handles POST /api/validate.
func (h *CrystalHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ValidateResponse{Valid: false, Error: "invalid request body"})
		return
	}

	parsed, err := h.svc.Validate(c.Request.Context(), req.CDL)
	if err != nil {
		if !errors.IsUserError(err) {
			writeAppError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, ValidateResponse{Valid: false, Error: shortMessage(err)})
		return
	}

	leaves := cdl.FlattenForms(parsed.Forms)
	forms := make([]ValidatedForm, 0, len(leaves))
	for _, f := range leaves {
		forms = append(forms, ValidatedForm{Miller: f.Miller.String(), Scale: f.Scale})
	}
	c.JSON(http.StatusOK, ValidateResponse{
		Valid: true,
		Parsed: &ValidatedParse{
			System:     string(parsed.System),
			PointGroup: parsed.PointGroup,
			FormsCount: len(leaves),
			Forms:      forms,
		},
	})
}

// RenderRequest is the request body for POST /api/render.  The same fields
// are accepted as query parameters on GET.
type RenderRequest struct {
	CDL    string   `json:"cdl"`
	Elev   *float64 `json:"elev"`
	Azim   *float64 `json:"azim"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
}

// Render handles POST and GET /api/render, responding with image/svg+xml.
func (h *CrystalHandler) Render(c *gin.Context) {
	var req RenderRequest
	if c.Request.Method == http.MethodGet {
		req = renderRequestFromQuery(c)
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.CDL == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cdl is required"})
		return
	}

	p := svg.Params{ElevDeg: svg.DefaultElev, AzimDeg: svg.DefaultAzim, Width: req.Width, Height: req.Height}
	if req.Elev != nil {
		p.ElevDeg = *req.Elev
	}
	if req.Azim != nil {
		p.AzimDeg = *req.Azim
	}

	out, err := h.svc.RenderSVG(c.Request.Context(), req.CDL, p)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", out)
}

func renderRequestFromQuery(c *gin.Context) RenderRequest {
	req := RenderRequest{CDL: c.Query("cdl")}
	if v, err := strconv.ParseFloat(c.Query("elev"), 64); err == nil {
		req.Elev = &v
	}
	if v, err := strconv.ParseFloat(c.Query("azim"), 64); err == nil {
		req.Azim = &v
	}
	if v, err := strconv.Atoi(c.Query("width")); err == nil {
		req.Width = v
	}
	if v, err := strconv.Atoi(c.Query("height")); err == nil {
		req.Height = v
	}
	return req
}

// ExportRequest is the request body for the export endpoints.
type ExportRequest struct {
	CDL   string  `json:"cdl"`
	Scale float64 `json:"scale"`
}

// ExportSTL handles POST /api/export/stl, responding with an ASCII STL
// attachment named crystal.stl.
func (h *CrystalHandler) ExportSTL(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.CDL == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cdl is required"})
		return
	}

	out, err := h.svc.ExportSTL(c.Request.Context(), req.CDL, req.Scale)
	if err != nil {
		writeAppError(c, err)
		return
	}

	h.uploadArtifact(c, "stl", "crystal.stl", "model/stl", out)
	c.Header("Content-Disposition", `attachment; filename="crystal.stl"`)
	c.Data(http.StatusOK, "model/stl", out)
}

// ExportGLTF handles POST /api/export/gltf, responding with glTF 2.0 JSON.
func (h *CrystalHandler) ExportGLTF(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.CDL == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cdl is required"})
		return
	}

	out, err := h.svc.ExportGLTF(c.Request.Context(), req.CDL, req.Scale)
	if err != nil {
		writeAppError(c, err)
		return
	}

	h.uploadArtifact(c, "gltf", "crystal.gltf", "model/gltf+json", out)
	c.Data(http.StatusOK, "model/gltf+json", out)
}

// uploadArtifact stores the encoded artifact when a store is configured and
// attaches its presigned URL as X-Artifact-URL.  The response body is
// authoritative; upload failures are logged and ignored.
func (h *CrystalHandler) uploadArtifact(c *gin.Context, kind, filename, contentType string, data []byte) {
	if h.store == nil {
		return
	}
	key := fmt.Sprintf("%s/%s-%s", kind, uuid.NewString(), filename)
	url, err := h.store.Upload(c.Request.Context(), key, data, contentType)
	if err != nil {
		h.logger.Warn("artifact upload failed", logging.String("key", key), logging.Err(err))
		if h.metrics != nil {
			h.metrics.ArtifactUploadsTotal.WithLabelValues(kind, "error").Inc()
		}
		return
	}
	if h.metrics != nil {
		h.metrics.ArtifactUploadsTotal.WithLabelValues(kind, "ok").Inc()
	}
	c.Header("X-Artifact-URL", url)
}

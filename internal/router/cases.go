package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/riskcalc/internal/clinical"
	"github.com/Skufu/riskcalc/internal/workspace"
)

type CaseHandler struct {
	log *zap.Logger
	ws  *workspace.Workspace
}

func NewCaseHandler(log *zap.Logger, ws *workspace.Workspace) *CaseHandler {
	return &CaseHandler{log: log, ws: ws}
}

// available aborts with 503 when the server runs without a workspace.
func (h *CaseHandler) available(c *gin.Context) bool {
	if h.ws == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": codeStore})
		return false
	}
	return true
}

// caseFailed maps workspace errors. A persist failure still carries a valid
// case, so it is reported as a notice next to the body.
func (h *CaseHandler) caseFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workspace.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": codeNotFound})
	case errors.Is(err, workspace.ErrNoActiveCase):
		c.JSON(http.StatusNotFound, gin.H{"error": codeNoActiveCase})
	default:
		h.log.Error("workspace", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": codeStore})
	}
}

func (h *CaseHandler) writeCase(c *gin.Context, status int, cs workspace.Case, err error) {
	if err != nil && !errors.Is(err, workspace.ErrPersist) {
		h.caseFailed(c, err)
		return
	}
	body := gin.H{"case": cs}
	if err != nil {
		h.log.Error("persist workspace", zap.String("case_id", cs.ID), zap.Error(err))
		body["notice"] = "changes kept in memory but not persisted"
	}
	c.JSON(status, body)
}

func (h *CaseHandler) List(c *gin.Context) {
	if !h.available(c) {
		return
	}
	activeID := ""
	if a, err := h.ws.Active(); err == nil {
		activeID = a.ID
	}
	c.JSON(http.StatusOK, gin.H{"activeId": activeID, "cases": h.ws.List()})
}

type createCaseRequest struct {
	Name        string   `json:"name"`
	YearOfBirth int      `json:"yob"`
	Sex         string   `json:"sex"`
	WeightKg    *float64 `json:"weightKg"`
	HeightCm    *float64 `json:"heightCm"`
}

func (h *CaseHandler) Create(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req createCaseRequest
	if _, ok := readJSON(c, h.log, &req); !ok {
		return
	}
	p := workspace.Patient{Name: req.Name, YearOfBirth: req.YearOfBirth, WeightKg: req.WeightKg, HeightCm: req.HeightCm}
	if req.Sex != "" {
		sex, err := clinical.ParseSex(req.Sex)
		if err != nil {
			validationFailed(c, h.log, err)
			return
		}
		p.Sex = sex
	}

	cs, err := h.ws.CreateCase(c.Request.Context(), p)
	h.writeCase(c, http.StatusCreated, cs, err)
}

func (h *CaseHandler) Active(c *gin.Context) {
	if !h.available(c) {
		return
	}
	cs, err := h.ws.Active()
	h.writeCase(c, http.StatusOK, cs, err)
}

type setActiveRequest struct {
	ID string `json:"id"`
}

func (h *CaseHandler) SetActive(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req setActiveRequest
	if _, ok := readJSON(c, h.log, &req); !ok {
		return
	}
	cs, err := h.ws.SetActive(c.Request.Context(), req.ID)
	h.writeCase(c, http.StatusOK, cs, err)
}

func (h *CaseHandler) AppendResult(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var r workspace.ToolResult
	if _, ok := readJSON(c, h.log, &r); !ok {
		return
	}
	if r.Tool == "" {
		validationFailed(c, h.log, errors.New("tool is required"))
		return
	}
	cs, err := h.ws.AppendResult(c.Request.Context(), r)
	h.writeCase(c, http.StatusCreated, cs, err)
}

func (h *CaseHandler) Get(c *gin.Context) {
	if !h.available(c) {
		return
	}
	cs, err := h.ws.Get(c.Param("id"))
	h.writeCase(c, http.StatusOK, cs, err)
}

func (h *CaseHandler) Close(c *gin.Context) {
	if !h.available(c) {
		return
	}
	err := h.ws.CloseCase(c.Request.Context(), c.Param("id"))
	if err != nil && !errors.Is(err, workspace.ErrPersist) {
		h.caseFailed(c, err)
		return
	}
	if err != nil {
		h.log.Error("persist workspace", zap.String("case_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"closed": c.Param("id"), "notice": "changes kept in memory but not persisted"})
		return
	}
	c.Status(http.StatusNoContent)
}

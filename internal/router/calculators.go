package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/riskcalc/internal/anthro"
	"github.com/Skufu/riskcalc/internal/clinical"
	"github.com/Skufu/riskcalc/internal/dosing"
	"github.com/Skufu/riskcalc/internal/renal"
	"github.com/Skufu/riskcalc/internal/score2"
	"github.com/Skufu/riskcalc/internal/scores"
	"github.com/Skufu/riskcalc/internal/whohearts"
	"github.com/Skufu/riskcalc/internal/workspace"
)

type CalculatorHandler struct {
	log    *zap.Logger
	ws     *workspace.Workspace
	dosing *dosing.Table
}

func NewCalculatorHandler(log *zap.Logger, ws *workspace.Workspace, table *dosing.Table) *CalculatorHandler {
	return &CalculatorHandler{log: log, ws: ws, dosing: table}
}

// calcResponse wraps every calculator result. Saved, CaseID and Notice are
// only set when the request asked for ?save=true.
type calcResponse struct {
	Result any    `json:"result"`
	Saved  bool   `json:"saved,omitempty"`
	CaseID string `json:"caseId,omitempty"`
	Notice string `json:"notice,omitempty"`
}

func (h *CalculatorHandler) respond(c *gin.Context, tool string, inputs []byte, result any, summary string) {
	resp := calcResponse{Result: result}
	if save, _ := strconv.ParseBool(c.Query("save")); save {
		h.save(c, &resp, tool, inputs, summary)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CalculatorHandler) save(c *gin.Context, resp *calcResponse, tool string, inputs []byte, summary string) {
	if h.ws == nil {
		resp.Notice = "case workspace is disabled"
		return
	}
	outputs, err := json.Marshal(resp.Result)
	if err != nil {
		h.log.Error("encode result", zap.String("tool", tool), zap.Error(err))
		resp.Notice = "result could not be saved"
		return
	}
	cs, err := h.ws.AppendResult(c.Request.Context(), workspace.ToolResult{
		Tool:    tool,
		Inputs:  json.RawMessage(inputs),
		Outputs: outputs,
		Summary: summary,
	})
	switch {
	case errors.Is(err, workspace.ErrNoActiveCase):
		resp.Notice = "no active case; result not saved"
	case errors.Is(err, workspace.ErrPersist):
		h.log.Error("persist workspace", zap.String("tool", tool), zap.Error(err))
		resp.Saved, resp.CaseID = true, cs.ID
		resp.Notice = "saved to the case but not persisted"
	case err != nil:
		h.log.Error("append result", zap.String("tool", tool), zap.Error(err))
		resp.Notice = "result could not be saved"
	default:
		resp.Saved, resp.CaseID = true, cs.ID
	}
}

type score2Request struct {
	Model       score2.Model `json:"model"`
	Region      string       `json:"region"`
	Sex         string       `json:"sex"`
	Age         float64      `json:"age"`
	Smoker      bool         `json:"smoker"`
	SBP         float64      `json:"sbp"`
	TotalChol   float64      `json:"totalChol"`
	HDL         float64      `json:"hdl"`
	Diabetes    bool         `json:"diabetes"`
	DiabetesAge float64      `json:"diabetesAge"`
	HbA1c       float64      `json:"hba1c"`
	HbA1cUnit   string       `json:"hba1cUnit"`
	EGFR        float64      `json:"egfr"`
}

func (r score2Request) input() (score2.Input, error) {
	region, err := clinical.ParseRegion(r.Region)
	if err != nil {
		return score2.Input{}, err
	}
	sex, err := clinical.ParseSex(r.Sex)
	if err != nil {
		return score2.Input{}, err
	}
	unit, err := clinical.ParseHbA1cUnit(r.HbA1cUnit)
	if err != nil {
		return score2.Input{}, err
	}
	return score2.Input{
		Region: region, Sex: sex, Age: r.Age, Smoker: r.Smoker,
		SBP: r.SBP, TotalChol: r.TotalChol, HDL: r.HDL, Diabetes: r.Diabetes,
		DiabetesAge: r.DiabetesAge, HbA1c: r.HbA1c, HbA1cUnit: unit, EGFR: r.EGFR,
	}, nil
}

func (h *CalculatorHandler) SCORE2(c *gin.Context) {
	var req score2Request
	raw, ok := readJSON(c, h.log, &req)
	if !ok {
		return
	}
	in, err := req.input()
	if err != nil {
		validationFailed(c, h.log, err)
		return
	}
	res, err := score2.Calculate(req.Model, in)
	if err != nil {
		calcFailed(c, h.log, err)
		return
	}
	h.respond(c, res.Model.String(), raw, res, fmt.Sprintf("%.1f%% %s", res.RiskPercent, res.RiskGroup))
}

type egfrRequest struct {
	Formula        renal.Formula `json:"formula"`
	Sex            string        `json:"sex"`
	Age            float64       `json:"age"`
	Creatinine     float64       `json:"creatinine"`
	CreatinineUnit string        `json:"creatinineUnit"`
	WeightKg       float64       `json:"weightKg"`
	HeightCm       float64       `json:"heightCm"`
	Black          bool          `json:"black"`
}

func (h *CalculatorHandler) EGFR(c *gin.Context) {
	var req egfrRequest
	raw, ok := readJSON(c, h.log, &req)
	if !ok {
		return
	}
	sex, err := clinical.ParseSex(req.Sex)
	if err != nil {
		validationFailed(c, h.log, err)
		return
	}
	unit, err := clinical.ParseCreatinineUnit(req.CreatinineUnit)
	if err != nil {
		validationFailed(c, h.log, err)
		return
	}
	res, err := renal.Estimate(renal.Input{
		Formula: req.Formula, Sex: sex, Age: req.Age,
		Creatinine: req.Creatinine, CreatinineUnit: unit,
		WeightKg: req.WeightKg, HeightCm: req.HeightCm, Black: req.Black,
	})
	if err != nil {
		calcFailed(c, h.log, err)
		return
	}
	summary := fmt.Sprintf("%.1f %s", res.Value, res.Unit)
	if res.Staged {
		summary += " " + string(res.Stage)
	}
	h.respond(c, res.Formula.String(), raw, res, summary)
}

type curb65Request struct {
	scores.CURB65Input
	Vitals *struct {
		Confusion       bool    `json:"confusion"`
		Urea            float64 `json:"urea"`
		RespiratoryRate float64 `json:"respiratoryRate"`
		SBP             float64 `json:"sbp"`
		DBP             float64 `json:"dbp"`
		Age             float64 `json:"age"`
	} `json:"vitals,omitempty"`
}

type qsofaRequest struct {
	scores.QSOFAInput
	Vitals *struct {
		RespiratoryRate  float64 `json:"respiratoryRate"`
		SBP              float64 `json:"sbp"`
		AlteredMentation bool    `json:"alteredMentation"`
	} `json:"vitals,omitempty"`
}

type cha2ds2vascRequest struct {
	scores.CHA2DS2VAScInput
	Sex string `json:"sex"`
}

// Score runs the rule-based score named by the :tool path segment.
func (h *CalculatorHandler) Score(c *gin.Context) {
	tool, err := scores.ParseTool(c.Param("tool"))
	if err != nil {
		h.log.Warn("unknown score", zap.String("tool", c.Param("tool")))
		c.JSON(http.StatusNotFound, gin.H{"error": codeNotFound, "detail": err.Error()})
		return
	}

	var (
		raw []byte
		ok  bool
		res scores.Score
	)
	switch tool {
	case scores.ToolCHA2DS2VASc:
		var req cha2ds2vascRequest
		if raw, ok = readJSON(c, h.log, &req); !ok {
			return
		}
		sex, err := clinical.ParseSex(req.Sex)
		if err != nil {
			validationFailed(c, h.log, err)
			return
		}
		req.CHA2DS2VAScInput.Sex = sex
		res = scores.CHA2DS2VASc(req.CHA2DS2VAScInput)
	case scores.ToolHASBLED:
		var req scores.HASBLEDInput
		if raw, ok = readJSON(c, h.log, &req); !ok {
			return
		}
		res = scores.HASBLED(req)
	case scores.ToolCURB65:
		var req curb65Request
		if raw, ok = readJSON(c, h.log, &req); !ok {
			return
		}
		in := req.CURB65Input
		if v := req.Vitals; v != nil {
			in = scores.CURB65FromVitals(v.Confusion, v.Urea, v.RespiratoryRate, v.SBP, v.DBP, v.Age)
		}
		res = scores.CURB65(in)
	case scores.ToolCentor:
		var req scores.CentorInput
		if raw, ok = readJSON(c, h.log, &req); !ok {
			return
		}
		res = scores.Centor(req)
	case scores.ToolQSOFA:
		var req qsofaRequest
		if raw, ok = readJSON(c, h.log, &req); !ok {
			return
		}
		in := req.QSOFAInput
		if v := req.Vitals; v != nil {
			in = scores.QSOFAFromVitals(v.RespiratoryRate, v.SBP, v.AlteredMentation)
		}
		res = scores.QSOFA(in)
	case scores.ToolChildPugh:
		var req scores.ChildPughInput
		if raw, ok = readJSON(c, h.log, &req); !ok {
			return
		}
		res = scores.ChildPugh(req)
	case scores.ToolFamilyAPGAR:
		var req scores.FamilyAPGARInput
		if raw, ok = readJSON(c, h.log, &req); !ok {
			return
		}
		res = scores.FamilyAPGAR(req)
	case scores.ToolSCREEM:
		var req scores.SCREEMInput
		if raw, ok = readJSON(c, h.log, &req); !ok {
			return
		}
		res = scores.SCREEM(req)
	}

	h.respond(c, string(tool), raw, res, fmt.Sprintf("%d/%d %s", res.Total, res.Max, res.Band))
}

type bmiRequest struct {
	WeightKg float64 `json:"weightKg"`
	HeightCm float64 `json:"heightCm"`
	Cutoffs  string  `json:"cutoffs"`
}

func (h *CalculatorHandler) BMI(c *gin.Context) {
	var req bmiRequest
	raw, ok := readJSON(c, h.log, &req)
	if !ok {
		return
	}
	cutoffs, err := anthro.ParseCutoffs(req.Cutoffs)
	if err != nil {
		validationFailed(c, h.log, err)
		return
	}
	res, err := anthro.BMI(req.WeightKg, req.HeightCm, cutoffs)
	if err != nil {
		calcFailed(c, h.log, err)
		return
	}
	h.respond(c, "bmi", raw, res, fmt.Sprintf("%.1f %s", res.BMI, res.Category))
}

func (h *CalculatorHandler) WHOHearts(c *gin.Context) {
	var in whohearts.Input
	raw, ok := readJSON(c, h.log, &in)
	if !ok {
		return
	}
	if in.Sex != "" {
		sex, err := clinical.ParseSex(string(in.Sex))
		if err != nil {
			validationFailed(c, h.log, err)
			return
		}
		in.Sex = sex
	}
	if in.Region != "" {
		region, err := whohearts.ParseRegion(string(in.Region))
		if err != nil {
			validationFailed(c, h.log, err)
			return
		}
		in.Region = region
	}

	d, err := whohearts.Evaluate(in)
	if err != nil {
		calcFailed(c, h.log, err)
		return
	}
	summary := string(d.Stage)
	if d.Chart != nil {
		summary = fmt.Sprintf("%.1f%% (%s)", d.Chart.RiskPercent, d.Chart.Band)
		if !d.Chart.Calibrated {
			summary += " provisional"
		}
	}
	h.respond(c, "who-hearts", raw, d, summary)
}

func (h *CalculatorHandler) DosingDrugs(c *gin.Context) {
	if h.dosing == nil {
		c.JSON(http.StatusOK, gin.H{"drugs": []string{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drugs": h.dosing.Names()})
}

func (h *CalculatorHandler) DosingLookup(c *gin.Context) {
	if h.dosing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": codeNotFound})
		return
	}
	egfr, err := strconv.ParseFloat(c.Query("egfr"), 64)
	if err != nil || !clinical.IsFinite(egfr) {
		h.log.Warn("invalid egfr query", zap.String("egfr", c.Query("egfr")))
		c.JSON(http.StatusBadRequest, gin.H{"error": codeInvalidPayload, "detail": "egfr query parameter must be a number"})
		return
	}
	adj, err := h.dosing.Lookup(c.Param("drug"), egfr)
	if errors.Is(err, dosing.ErrUnknownDrug) {
		h.log.Warn("unknown drug", zap.String("drug", c.Param("drug")))
		c.JSON(http.StatusNotFound, gin.H{"error": codeNotFound, "detail": err.Error()})
		return
	}
	if err != nil {
		validationFailed(c, h.log, err)
		return
	}

	inputs, _ := json.Marshal(gin.H{"drug": c.Param("drug"), "egfr": egfr})
	h.respond(c, "dosing", inputs, adj, fmt.Sprintf("%s: %s", adj.Drug, adj.Severity))
}

type reviewRequest struct {
	Medications string  `json:"medications"`
	EGFR        float64 `json:"egfr"`
}

func (h *CalculatorHandler) DosingReview(c *gin.Context) {
	var req reviewRequest
	raw, ok := readJSON(c, h.log, &req)
	if !ok {
		return
	}
	if h.dosing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": codeNotFound})
		return
	}
	r := h.dosing.ReviewList(req.Medications, req.EGFR)
	h.respond(c, "dosing-review", raw, r, fmt.Sprintf("%d findings, max %s", len(r.Findings), r.MaxSeverity))
}

package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/zoneroute/internal/travel/lookup"
	"github.com/cory-johannsen/zoneroute/internal/travel/resolve"
	"github.com/cory-johannsen/zoneroute/internal/travel/route"
)

type handlers struct {
	planner *lookup.Planner
	logger  *zap.Logger
}

// pageData feeds indexTemplate.
type pageData struct {
	From     string
	To       string
	Result   string
	Error    string
	AllZones []string
}

// StepJSON is one step of a route in API responses.
type StepJSON struct {
	Zone        string `json:"zone"`
	Method      string `json:"method,omitempty"`
	Label       string `json:"label,omitempty"`
	Item        string `json:"item,omitempty"`
	Stone       string `json:"stone,omitempty"`
	Door        string `json:"door,omitempty"`
	Description string `json:"description,omitempty"`
}

// RouteResponse is the body of a successful GET /api/route.
type RouteResponse struct {
	ID           string     `json:"id"`
	From         string     `json:"from"`
	To           string     `json:"to"`
	Checked      int        `json:"checked"`
	AtlasVersion uint64     `json:"atlas_version"`
	Steps        []StepJSON `json:"steps"`
	Text         string     `json:"text"`
}

// ErrorResponse is the body of a failed API request.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Kind       string   `json:"kind"`
	Candidates []string `json:"candidates,omitempty"`
}

func (h *handlers) page(from, to string) pageData {
	if from == "" {
		from = h.planner.DefaultFrom()
	}
	return pageData{From: from, To: to, AllZones: h.planner.Zones("")}
}

func (h *handlers) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", h.page("", ""))
}

// submit handles the form post. Failures are rendered into the page, so the
// status is always 200.
func (h *handlers) submit(c *gin.Context) {
	from := c.PostForm("from_zone")
	to := c.PostForm("to_zone")
	data := h.page(from, to)

	res, err := h.planner.Lookup(lookup.Request{From: from, To: to})
	if err != nil {
		data.Error = lookup.Message(err)
	} else {
		data.Result = res.Text
	}
	c.HTML(http.StatusOK, "index", data)
}

func (h *handlers) apiRoute(c *gin.Context) {
	res, err := h.planner.Lookup(lookup.Request{
		From: c.Query("from"),
		To:   c.Query("to"),
	})
	if err != nil {
		body := ErrorResponse{Error: lookup.Message(err), Kind: lookup.Status(err)}
		var me *resolve.MatchError
		if errors.As(err, &me) {
			body.Candidates = me.Candidates
		}
		c.JSON(statusFor(err), body)
		return
	}

	c.JSON(http.StatusOK, RouteResponse{
		ID:           res.ID,
		From:         res.From,
		To:           res.To,
		Checked:      res.Checked,
		AtlasVersion: res.AtlasVersion,
		Steps:        stepsJSON(res.Route),
		Text:         res.Text,
	})
}

func (h *handlers) apiZones(c *gin.Context) {
	zones := h.planner.Zones(c.Query("prefix"))
	c.JSON(http.StatusOK, gin.H{"zones": zones, "count": len(zones)})
}

func (h *handlers) health(c *gin.Context) {
	snap := h.planner.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"zones":         snap.Graph.Len(),
		"atlas_version": snap.Version,
		"loaded_at":     snap.LoadedAt,
	})
}

// statusFor maps a lookup failure onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, resolve.ErrEmptyInput), errors.Is(err, lookup.ErrNameTooLong):
		return http.StatusBadRequest
	case errors.Is(err, resolve.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, resolve.ErrAmbiguous), errors.Is(err, route.ErrNoPath):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func stepsJSON(r route.Route) []StepJSON {
	out := make([]StepJSON, len(r))
	for i, s := range r {
		out[i] = StepJSON{
			Zone:        s.Zone,
			Label:       s.Method.Label(),
			Item:        s.Method.Item,
			Stone:       s.Method.Stone,
			Door:        s.Door,
			Description: s.Description,
		}
		if s.Method.Kind != route.MethodNone {
			out[i].Method = s.Method.Kind.String()
		}
	}
	return out
}

package restapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/emitter"
	"github.com/sharedcode/lrc/scheme"
)

// CompileRequest is the body of a compile call. Omitted options fall back to the server's.
type CompileRequest struct {
	Scheme            string `json:"scheme" binding:"required"`
	MultiGlobal       *bool  `json:"multi_global,omitempty"`
	LocalSyndromeBase *byte  `json:"local_syndrome_base,omitempty"`
}

// CompileResponse carries the layout and the rendered lrc_config.c.
type CompileResponse struct {
	Layout *scheme.Layout `json:"layout"`
	// Encoded and Data are lrc_scheme and lrc_data as C hex literals.
	Encoded []string `json:"encoded"`
	Data    []string `json:"data"`
	Config  string   `json:"config"`
	Usable  bool     `json:"usable"`
	// UsableError explains why a compiled layout can't drive the native module.
	UsableError string `json:"usable_error,omitempty"`
}

func errorStatus(err error) int {
	switch lrc.CodeOf(err) {
	case lrc.InvalidScheme, lrc.ConfigurationConflict:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// CompileScheme godoc
// @Summary CompileScheme compiles a scheme descriptor.
// @Description CompileScheme responds with the layout, its usability and the lrc_config.c text.
// @Tags Schemes
// @Accept json
// @Produce json
// @Param request body CompileRequest true "Descriptor and compiler options"
// @Failure 400 {object} map[string]any
// @Success 200 {object} CompileResponse
// @Router /schemes/compile [post]
// @Security Bearer
func (s *Server) CompileScheme(c *gin.Context) {
	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	opts := s.Options
	if req.MultiGlobal != nil {
		opts.MultiGlobal = *req.MultiGlobal
	}
	if req.LocalSyndromeBase != nil {
		opts.LocalSyndromeBase = *req.LocalSyndromeBase
	}
	if err := (lrc.Config{Compiler: opts, Repository: lrc.RepositoryConfig{Type: lrc.InMemoryRepository}}).Validate(); err != nil {
		c.IndentedJSON(errorStatus(err), gin.H{"message": err.Error()})
		return
	}

	l, err := scheme.Compile(req.Scheme, opts)
	if err != nil {
		c.IndentedJSON(errorStatus(err), gin.H{"message": err.Error()})
		return
	}
	resp := CompileResponse{
		Layout:  l,
		Encoded: emitter.HexBytes(l.Encoded),
		Data:    emitter.HexBytes(l.DataSubset),
		Config:  string(emitter.Render(l)),
		Usable:  true,
	}
	if err := scheme.CheckUsable(l); err != nil {
		resp.Usable = false
		resp.UsableError = err.Error()
	}
	c.IndentedJSON(http.StatusOK, resp)
}

// LookupScheme godoc
// @Summary LookupScheme returns the first stored scheme of a configuration.
// @Tags Schemes
// @Produce json
// @Param groups query int true "Number of groups"
// @Param length query int true "Group length"
// @Param disks query int true "Number of disks"
// @Param global_s query int false "Number of global syndromes" default(1)
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Success 200 {object} lrc.Record
// @Router /schemes [get]
// @Security Bearer
func (s *Server) LookupScheme(c *gin.Context) {
	q := lrc.Query{}
	for _, f := range []lrc.Field{lrc.FieldGroups, lrc.FieldLength, lrc.FieldDisks, lrc.FieldGlobalS} {
		v, ok := c.GetQuery(string(f))
		if !ok {
			if f == lrc.FieldGlobalS {
				q[f] = 1
				continue
			}
			c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "missing query parameter " + string(f)})
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "invalid query parameter " + string(f)})
			return
		}
		q[f] = n
	}
	r, ok, err := s.Repository.Lookup(c, q)
	if err != nil {
		c.IndentedJSON(errorStatus(err), gin.H{"message": err.Error()})
		return
	}
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "no scheme stored for the configuration"})
		return
	}
	c.IndentedJSON(http.StatusOK, r)
}

// AddScheme godoc
// @Summary AddScheme appends a scheme record.
// @Description The scheme has to compile with the server's options.
// @Tags Schemes
// @Accept json
// @Produce json
// @Param record body lrc.Record true "Scheme record"
// @Failure 400 {object} map[string]any
// @Success 201 {object} lrc.Record
// @Router /schemes [post]
// @Security Bearer
func (s *Server) AddScheme(c *gin.Context) {
	var r lrc.Record
	if err := c.ShouldBindJSON(&r); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if _, err := scheme.Compile(r.Scheme, s.Options); err != nil {
		c.IndentedJSON(errorStatus(err), gin.H{"message": err.Error()})
		return
	}
	if err := s.Repository.Add(c, r); err != nil {
		c.IndentedJSON(errorStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusCreated, r)
}

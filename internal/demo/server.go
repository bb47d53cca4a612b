// Package demo embeds a small CRM API server implementing the exact wire
// contract the console speaks, backed by seeded in-memory contacts. It
// exists so the console can be tried and tested without a live CRM
// install; it is not a CRM.
package demo

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"crmdesk/internal/record"
)

// Server serves the demo CRM API.
type Server struct {
	data   *dataset
	logger *zap.Logger
}

// New builds a demo server with seeded contacts.
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{data: seed(), logger: logger}
}

// Router builds the gin engine with all demo routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/login", s.handleLogin)
	r.GET("/getAll", s.handleGetAll)
	r.GET("/api", s.handleRecord)
	r.POST("/updateRecord", s.handleUpdateRecord)
	r.POST("/createField", s.handleCreateField)
	r.POST("/updatePotentials", s.handleUpdatePotentials)
	return r
}

// Run serves the demo API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("demo server listening", zap.String("addr", addr))
	return s.Router().Run(addr)
}

func (s *Server) handleLogin(c *gin.Context) {
	var creds struct {
		Username  string `json:"username"`
		AccessKey string `json:"accessKey"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Username == "" || creds.AccessKey == "" {
		c.JSON(http.StatusOK, gin.H{"error": "Invalid username or access key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"Auth User": gin.H{"sessionName": "demo-" + uuid.NewString()},
	})
}

func (s *Server) handleGetAll(c *gin.Context) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	byLabel := gin.H{}
	for _, rec := range s.data.records {
		byLabel[rec.Label] = []any{fieldArray(rec.Fields)}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": byLabel})
}

func (s *Server) handleRecord(c *gin.Context) {
	id := c.Query("id")

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	rec, ok := s.data.records[id]
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("record %s not found", id)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":       rec.ID,
			"sections": gin.H{"General Information": fieldArray(rec.Fields)},
			"related":  gin.H{"Potentials": rec.Potentials},
		},
	})
}

func (s *Server) handleUpdateRecord(c *gin.Context) {
	var req struct {
		ID   string            `json:"id"`
		Data map[string]string `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	rec, ok := s.data.records[req.ID]
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("record %s not found", req.ID)})
		return
	}

	for name, value := range req.Data {
		updated := false
		for i := range rec.Fields {
			if rec.Fields[i].FieldName == name {
				rec.Fields[i].Value = value
				updated = true
				break
			}
		}
		if !updated {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("unknown field %s", name)})
			return
		}
	}
	s.logger.Info("record updated", zap.String("id", req.ID), zap.Int("fields", len(req.Data)))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCreateField(c *gin.Context) {
	var req struct {
		ID        string `json:"id"`
		FieldInfo struct {
			FieldName string           `json:"fieldname"`
			Label     string           `json:"label"`
			Type      record.FieldType `json:"type"`
			Value     string           `json:"value"`
			Mandatory bool             `json:"mandatory"`
			Editable  *bool            `json:"editable"`
		} `json:"field_info"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.FieldInfo.FieldName == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "field_info.fieldname is required"})
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	rec, ok := s.data.records[req.ID]
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("record %s not found", req.ID)})
		return
	}
	for _, f := range rec.Fields {
		if f.FieldName == req.FieldInfo.FieldName {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("field %s already exists", f.FieldName)})
			return
		}
	}

	editable := true
	if req.FieldInfo.Editable != nil {
		editable = *req.FieldInfo.Editable
	}
	rec.Fields = append(rec.Fields, field{
		FieldDescriptor: record.FieldDescriptor{
			FieldName: req.FieldInfo.FieldName,
			Label:     req.FieldInfo.Label,
			Type:      req.FieldInfo.Type,
			Mandatory: req.FieldInfo.Mandatory,
			Editable:  editable,
		},
		Value: req.FieldInfo.Value,
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleUpdatePotentials(c *gin.Context) {
	var req struct {
		Type string             `json:"type"`
		Data []record.Potential `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Type != "potentials" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "expected type \"potentials\""})
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for _, p := range req.Data {
		if !s.upsertPotential(p) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("potential %s not found", p.ID)})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// upsertPotential updates a row in place by id; client-generated "new_"
// ids are assigned a server id and attached to the first record, which is
// all the flat demo dataset needs.
func (s *Server) upsertPotential(p record.Potential) bool {
	if record.IsNewPotentialID(p.ID) {
		s.data.nextID++
		p.ID = fmt.Sprintf("5x%d", s.data.nextID)
		for _, rec := range s.data.records {
			rec.Potentials = append(rec.Potentials, p)
			return true
		}
		return false
	}
	for _, rec := range s.data.records {
		for i := range rec.Potentials {
			if rec.Potentials[i].ID == p.ID {
				rec.Potentials[i] = p
				return true
			}
		}
	}
	return false
}

// fieldArray renders fields in the wire shape the console's normalizer
// expects.
func fieldArray(fields []field) []gin.H {
	out := make([]gin.H, 0, len(fields))
	for _, f := range fields {
		h := gin.H{
			"fieldname": f.FieldName,
			"label":     f.Label,
			"type":      f.Type,
			"value":     f.Value,
			"mandatory": f.Mandatory,
			"editable":  f.Editable,
		}
		if len(f.Options) > 0 {
			h["options"] = f.Options
		}
		out = append(out, h)
	}
	return out
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labelpress/labelpress/pkg/cache"
	"github.com/labelpress/labelpress/pkg/mint"
	"github.com/labelpress/labelpress/pkg/pipeline"
)

// artifactTTL bounds how long cached renders are served. Edits to the
// template markup, element array, or entity record change the key's
// content hashes; the TTL just caps storage growth.
const artifactTTL = 24 * time.Hour

type renderRequest struct {
	TemplateID string `json:"templateId"`
	VersionID  string `json:"versionId"`
	EntityType string `json:"entityType,omitempty"`
	EntityID   string `json:"entityId,omitempty"`
	Mode       string `json:"mode"`
	Payload    string `json:"payload,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	Profile    string `json:"profile,omitempty"`
	Note       string `json:"note,omitempty"`
}

type gridResponse struct {
	Columns  int  `json:"columns"`
	Rows     int  `json:"rows"`
	PerSheet int  `json:"perSheet"`
	Rotated  bool `json:"rotated"`
}

type labelResponse struct {
	Markup string       `json:"markup"`
	Tokens []mint.Token `json:"tokens,omitempty"`
}

type sheetsResponse struct {
	Sheets []string     `json:"sheets"`
	Grid   gridResponse `json:"grid"`
	Tokens []mint.Token `json:"tokens,omitempty"`
}

func (s *Server) handleRenderLabel(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	key, cacheable := s.artifactKey(r.Context(), req)
	if cacheable {
		if data, hit, _ := s.artifacts.Get(r.Context(), key); hit {
			writeCachedJSON(w, data)
			return
		}
	}

	res, err := s.runner.RenderLabel(r.Context(), toPipelineRequest(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.respond(w, r, key, cacheable, labelResponse{Markup: res.Labels[0], Tokens: res.Tokens})
}

func (s *Server) handleRenderSheets(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	key, cacheable := s.artifactKey(r.Context(), req)
	if cacheable {
		if data, hit, _ := s.artifacts.Get(r.Context(), key); hit {
			writeCachedJSON(w, data)
			return
		}
	}

	res, err := s.runner.RenderSheets(r.Context(), toPipelineRequest(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sheets := make([]string, len(res.Sheets))
	for i, svg := range res.Sheets {
		sheets[i] = string(svg)
	}
	s.respond(w, r, key, cacheable, sheetsResponse{
		Sheets: sheets,
		Grid: gridResponse{
			Columns:  res.Grid.Columns,
			Rows:     res.Grid.Rows,
			PerSheet: res.Grid.PerSheet,
			Rotated:  res.Grid.Rotated,
		},
		Tokens: res.Tokens,
	})
}

func toPipelineRequest(req renderRequest) pipeline.Request {
	return pipeline.Request{
		TemplateID: req.TemplateID,
		VersionID:  req.VersionID,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Mode:       pipeline.Mode(req.Mode),
		Payload:    req.Payload,
		Quantity:   req.Quantity,
		Profile:    req.Profile,
		Note:       req.Note,
	}
}

// artifactKey builds the cache key for a request. The stored markup,
// element array, and entity record participate by content hash, so edits
// to any of them miss the cache without explicit purging. Token mode is
// never cacheable: every run mints fresh identifiers.
func (s *Server) artifactKey(ctx context.Context, req renderRequest) (string, bool) {
	mode := pipeline.Mode(req.Mode)
	if mode == pipeline.ModeToken {
		return "", false
	}

	v, err := s.runner.Templates.Version(ctx, req.TemplateID, req.VersionID)
	if err != nil {
		// Let the render path report the lookup failure.
		return "", false
	}

	entityHash := ""
	if req.EntityType != "" && mode != pipeline.ModePreview {
		entity, err := s.runner.Entities.Entity(ctx, req.EntityType, req.EntityID)
		if err != nil {
			return "", false
		}
		raw, _ := json.Marshal(entity)
		entityHash = cache.Hash(raw)
	}

	return cache.RenderKey(cache.Hash([]byte(v.Markup)), cache.Hash(v.Elements), cache.RenderKeyOpts{
		Mode:     req.Mode,
		Format:   "json",
		Quantity: req.Quantity,
		Profile:  req.Profile,
		Entity:   entityHash,
		Payload:  req.Payload,
		Note:     req.Note,
		LabelW:   v.WidthIn,
		LabelH:   v.HeightIn,
	}), true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, key string, cacheable bool, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cacheable {
		if err := s.artifacts.Set(r.Context(), key, data, artifactTTL); err != nil {
			s.logger.Warn("artifact cache write failed", "err", err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func writeCachedJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "hit")
	w.Write(data)
}

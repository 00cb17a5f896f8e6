package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/routeboard/pkg/buildinfo"
	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/geom"
	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/pipeline"
	"github.com/matzehuels/routeboard/pkg/planar"
	"github.com/matzehuels/routeboard/pkg/planar/spatial"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// ===== Request and response bodies =====
//
// Live boards address nodes and edges by generational key ("n3:2", "e0:1").
// A key outlives any reshuffling of the board and fails with UNKNOWN_NODE
// or UNKNOWN_EDGE once its entity is removed, even if the slot is reused.
// Document indices appear only in persisted documents.

// createdBody answers board creation. Keys lists the node keys in the
// order of the source document's nodes.
type createdBody struct {
	ID    string           `json:"id"`
	Nodes int              `json:"nodes"`
	Edges int              `json:"edges"`
	Keys  []planar.NodeKey `json:"keys"`
}

type boardBody struct {
	ID    string     `json:"id"`
	Nodes []nodeBody `json:"nodes"`
	Edges []edgeBody `json:"edges"`
}

type nodeBody struct {
	Key planar.NodeKey `json:"key"`
	X   float32        `json:"x"`
	Y   float32        `json:"y"`
}

type edgeBody struct {
	Key  planar.EdgeKey `json:"key"`
	From planar.NodeKey `json:"from"`
	To   planar.NodeKey `json:"to"`
}

type addedEdgeBody struct {
	edgeBody
	Created bool `json:"created"`
}

type edgeRequest struct {
	From planar.NodeKey `json:"from"`
	To   planar.NodeKey `json:"to"`
}

type pickBody struct {
	Kind string          `json:"kind"`
	Node *planar.NodeKey `json:"node,omitempty"`
	Edge *edgeBody       `json:"edge,omitempty"`
}

type nearestBody struct {
	From planar.NodeKey  `json:"from"`
	Node *planar.NodeKey `json:"node"`
}

type withinBody struct {
	From  planar.NodeKey   `json:"from"`
	Nodes []planar.NodeKey `json:"nodes"`
}

type routeBody struct {
	From      planar.NodeKey   `json:"from"`
	To        planar.NodeKey   `json:"to"`
	Nodes     []planar.NodeKey `json:"nodes"`
	Edges     []planar.EdgeKey `json:"edges"`
	Distance  *float32         `json:"distance,omitempty"`
	Reachable bool             `json:"reachable"`
}

// ===== Service =====

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// ===== Boards =====

func (s *Server) handleListBoards(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"graphs": s.boardIDs()})
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var doc graph.Document
	if err := decodeBody(w, r, &doc, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, ix, err := graph.ToPlanar(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := s.addBoard(g)
	s.logger.Debug("created board", "id", id, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	writeJSON(w, http.StatusCreated, newCreatedBody(id, g, ix))
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out := boardBody{ID: id, Nodes: []nodeBody{}, Edges: []edgeBody{}}
	err := s.withBoard(id, func(g *planar.Graph) error {
		for k, n := range g.Nodes() {
			p := n.Position()
			out.Nodes = append(out.Nodes, nodeBody{Key: k, X: p.X, Y: p.Y})
		}
		for k, e := range g.Edges() {
			out.Edges = append(out.Edges, edgeBody{Key: k, From: e.From(), To: e.To()})
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.removeBoard(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Nodes =====

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	p, err := decodePosition(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var out nodeBody
	err = s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		k, err := g.AttachNode(planar.NewNode(p))
		out = nodeBody{Key: k, X: p.X, Y: p.Y}
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	k, err := pathNodeKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := decodePosition(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	err = s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		return g.SetNodePosition(k, p)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nodeBody{Key: k, X: p.X, Y: p.Y})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	k, err := pathNodeKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		return g.RemoveNode(k)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Edges =====

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var in edgeRequest
	if err := decodeBody(w, r, &in, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.From.IsNil() || in.To.IsNil() {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "edge needs both \"from\" and \"to\" node keys"))
		return
	}

	out := addedEdgeBody{edgeBody: edgeBody{From: in.From, To: in.To}}
	err := s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		_, existed := g.EdgeBetween(in.From, in.To)
		k, err := g.AddEdge(in.From, in.To)
		if err != nil {
			return err
		}
		out.Key = k
		out.Created = !existed
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, out)
}

// handleRemoveEdge removes an edge named by its key.
func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "edge")
	k, err := planar.ParseEdgeKey(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		return g.RemoveEdge(k)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveEdgeBetween removes the edge from→to named by its endpoint
// keys.
func (s *Server) handleRemoveEdgeBetween(w http.ResponseWriter, r *http.Request) {
	from, err := queryNodeKey(r, "from")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	to, err := queryNodeKey(r, "to")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		for _, k := range []planar.NodeKey{from, to} {
			if _, err := g.LookupNode(k); err != nil {
				return err
			}
		}
		ek, ok := g.EdgeBetween(from, to)
		if !ok {
			return fmt.Errorf("edge %s→%s: %w", from, to, planar.ErrUnknownEdge)
		}
		return g.RemoveEdge(ek)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Queries =====

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	opts, err := routeOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var (
		out routeBody
		hit bool
	)
	err = s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		res, err := s.runner.Route(r.Context(), g, opts)
		if err != nil {
			return err
		}
		hit = res.CacheHit
		out, err = newRouteBody(g, res)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	x, err := queryFloat(r, "x")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	y, err := queryFloat(r, "y")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var out pickBody
	err = s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		sel := spatial.Pick(g, geom.V(x, y), s.pick)
		out.Kind = sel.Kind.String()
		switch sel.Kind {
		case spatial.SelectNode:
			out.Node = &sel.Node
		case spatial.SelectEdge:
			e, err := g.LookupEdge(sel.Edge)
			if err != nil {
				return err
			}
			out.Edge = &edgeBody{Key: sel.Edge, From: e.From(), To: e.To()}
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	k, err := pathNodeKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := nearestBody{From: k}
	err = s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		nk, err := spatial.NearestNode(g, k)
		if err != nil || nk.IsNil() {
			return err
		}
		out.Node = &nk
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWithin(w http.ResponseWriter, r *http.Request) {
	k, err := pathNodeKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	minR, err := queryFloat(r, "min")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	maxR, err := queryFloat(r, "max")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := withinBody{From: k, Nodes: []planar.NodeKey{}}
	err = s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		keys, err := spatial.NodesInAnnulus(g, k, minR, maxR)
		out.Nodes = append(out.Nodes, keys...)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.RenderOptions{
		Formats:    []string{format},
		HideLabels: r.URL.Query().Has("nolabels"),
	}

	var routeOpts *pipeline.RouteOptions
	if r.URL.Query().Has("from") || r.URL.Query().Has("to") {
		ro, err := routeOptions(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		routeOpts = &ro
	}

	// Snapshot under the lock; rendering runs on the copy. The route, when
	// requested, is expressed in the snapshot's document indices.
	var doc graph.Document
	err := s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		if routeOpts == nil {
			doc, _ = graph.FromPlanar(g)
			return nil
		}
		res, err := s.runner.Route(r.Context(), g, *routeOpts)
		if err != nil {
			return err
		}
		doc = res.Document
		opts.Route = &res.Route
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// ===== Documents =====

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := apperrors.ValidateDocumentName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	var doc graph.Document
	err := s.withBoard(chi.URLParam(r, "id"), func(g *planar.Graph) error {
		doc, _ = graph.FromPlanar(g)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), name, doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, ix, err := graph.ToPlanar(*doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := s.addBoard(g)
	writeJSON(w, http.StatusCreated, newCreatedBody(id, g, ix))
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"documents": names})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Parameter helpers
// =============================================================================

func pathNodeKey(r *http.Request) (planar.NodeKey, error) {
	return parseNodeParam("node", chi.URLParam(r, "node"))
}

func queryNodeKey(r *http.Request, name string) (planar.NodeKey, error) {
	return parseNodeParam(name, r.URL.Query().Get(name))
}

func parseNodeParam(name, raw string) (planar.NodeKey, error) {
	if raw == "" {
		return planar.NodeKey{}, apperrors.New(apperrors.ErrCodeInvalidInput, "missing parameter %q", name)
	}
	return planar.ParseNodeKey(raw)
}

func queryFloat(r *http.Request, name string) (float32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "missing parameter %q", name)
	}
	return apperrors.ParseCoordinate(fmt.Sprintf("parameter %q", name), raw)
}

func routeOptions(r *http.Request) (pipeline.RouteOptions, error) {
	from, err := queryNodeKey(r, "from")
	if err != nil {
		return pipeline.RouteOptions{}, err
	}
	to, err := queryNodeKey(r, "to")
	if err != nil {
		return pipeline.RouteOptions{}, err
	}
	return pipeline.RouteOptions{FromKey: from, ToKey: to, Refresh: r.URL.Query().Has("refresh")}, nil
}

// decodePosition reads a {"x", "y"} body and rejects non-finite values.
func decodePosition(w http.ResponseWriter, r *http.Request) (geom.Vec2, error) {
	var in graph.Node
	if err := decodeBody(w, r, &in, false); err != nil {
		return geom.Vec2{}, err
	}
	p := in.Position()
	if !p.IsFinite() {
		return geom.Vec2{}, apperrors.New(apperrors.ErrCodeInvalidInput, "position (%v, %v) is not finite", in.X, in.Y)
	}
	return p, nil
}

func newCreatedBody(id string, g *planar.Graph, ix *graph.Index) createdBody {
	return createdBody{ID: id, Nodes: g.NodeCount(), Edges: g.EdgeCount(), Keys: ix.Keys()}
}

// newRouteBody maps a route's document indices back to keys of g through
// the index snapshot the route was resolved against.
func newRouteBody(g *planar.Graph, res pipeline.RouteResult) (routeBody, error) {
	rt, ix := res.Route, res.Index
	out := routeBody{
		Nodes:     make([]planar.NodeKey, 0, len(rt.Nodes)),
		Edges:     make([]planar.EdgeKey, 0, len(rt.Edges)),
		Distance:  rt.Distance,
		Reachable: rt.Reachable,
	}
	var err error
	if out.From, err = ix.MustKey(rt.From); err != nil {
		return routeBody{}, err
	}
	if out.To, err = ix.MustKey(rt.To); err != nil {
		return routeBody{}, err
	}
	for _, i := range rt.Nodes {
		k, err := ix.MustKey(i)
		if err != nil {
			return routeBody{}, err
		}
		out.Nodes = append(out.Nodes, k)
	}
	for _, e := range rt.Edges {
		from, _ := ix.Key(e.From)
		to, _ := ix.Key(e.To)
		ek, ok := g.EdgeBetween(from, to)
		if !ok {
			return routeBody{}, fmt.Errorf("route edge %d→%d: %w", e.From, e.To, planar.ErrUnknownEdge)
		}
		out.Edges = append(out.Edges, ek)
	}
	return out, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

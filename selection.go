package neogeosync

import (
	"strings"

	"github.com/paulmach/orb"

	"github.com/saulfrancisco-ruizacevedo/go-neogeosync/models"
)

// SelectionSet holds the zero or one highlighted feature.
type SelectionSet struct {
	id      GeoIdentifier
	feature *models.Feature
}

// Identifier returns the highlighted identifier, or "" when nothing is highlighted.
func (s *SelectionSet) Identifier() GeoIdentifier { return s.id }

// Feature returns the highlighted feature or nil.
func (s *SelectionSet) Feature() *models.Feature { return s.feature }

// Len is 0 or 1.
func (s *SelectionSet) Len() int {
	if s.feature == nil {
		return 0
	}
	return 1
}

func (s *SelectionSet) set(id GeoIdentifier, f *models.Feature) {
	s.id, s.feature = id, f
}

func (s *SelectionSet) clear() {
	s.id, s.feature = "", nil
}

// SelectionReconciler keeps the highlight layer in line with the graph selection and
// resolves map clicks back to graph nodes.
type SelectionReconciler struct {
	Mapper   IdentityMapper
	Target   string
	OnLoaded LoadedFunc
	// FeatureIDFilter keeps only clicked feature ids containing it. Empty keeps all.
	FeatureIDFilter string
}

// Sync makes sel hold exactly the feature of the selected node, or nothing.
// It reports whether sel changed. A feature the cache does not hold yet is requested
// and picked up by a later pass.
func (r SelectionReconciler) Sync(item *SelectedItem, cache FeatureSource, sel *SelectionSet) bool {
	if item == nil || item.Kind != ItemNode || item.Node == nil {
		return r.clear(sel)
	}
	id, ok := r.Mapper.GeoIdentifierOf(item.Node)
	if !ok {
		return r.clear(sel)
	}
	if sel.id == id {
		return false
	}

	changed := r.clear(sel)
	if f, ok := cache.Get(id); ok {
		sel.set(id, f)
		return true
	}
	cache.GetOrLoad([]GeoIdentifier{id}, r.Target, r.OnLoaded)
	return changed
}

func (r SelectionReconciler) clear(sel *SelectionSet) bool {
	if sel.id == "" && sel.feature == nil {
		return false
	}
	sel.clear()
	return true
}

// ClickOutcome tells the caller what to do with a map click.
type ClickOutcome int

const (
	// ClickNothing means no graph node matched; this is not an error.
	ClickNothing ClickOutcome = iota
	// ClickSelect means exactly one node matched and should be selected.
	ClickSelect
	// ClickChoose means several nodes overlap at the click point.
	ClickChoose
)

// ClickCandidate is one feature under the pointer together with its graph node.
type ClickCandidate struct {
	FeatureID string
	Node      *models.GraphNode
}

// ClickResolution is the result of ResolveClick.
type ClickResolution struct {
	Outcome    ClickOutcome
	Node       *models.GraphNode
	Candidates []ClickCandidate
}

// ResolveClick maps the feature ids reported under the pointer onto graph nodes.
// Ids are filtered, de-duplicated and dropped when no node carries them; the number of
// remaining candidates decides the outcome.
func (r SelectionReconciler) ResolveClick(featureIDs []string, nodes []*models.GraphNode) ClickResolution {
	seen := make(map[string]struct{}, len(featureIDs))
	var candidates []ClickCandidate
	for _, fid := range featureIDs {
		if fid == "" || !strings.Contains(fid, r.FeatureIDFilter) {
			continue
		}
		if _, dup := seen[fid]; dup {
			continue
		}
		seen[fid] = struct{}{}
		if n, ok := r.Mapper.NodeForFeatureID(fid, nodes); ok {
			candidates = append(candidates, ClickCandidate{FeatureID: fid, Node: n})
		}
	}

	switch len(candidates) {
	case 0:
		return ClickResolution{Outcome: ClickNothing}
	case 1:
		return ClickResolution{Outcome: ClickSelect, Node: candidates[0].Node, Candidates: candidates}
	default:
		return ClickResolution{Outcome: ClickChoose, Candidates: candidates}
	}
}

// Chooser is the disambiguation list shown when several features overlap at a click.
// Hovering a candidate previews it, committing selects it and closes the list,
// dismissing closes it without a selection.
type Chooser struct {
	at         orb.Point
	candidates []ClickCandidate
	previewed  string
	open       bool
}

// NewChooser opens a chooser at the click coordinate.
func NewChooser(at orb.Point, candidates []ClickCandidate) *Chooser {
	return &Chooser{at: at, candidates: candidates, open: true}
}

// At returns where the chooser was opened.
func (c *Chooser) At() orb.Point { return c.at }

// Candidates returns the listed candidates.
func (c *Chooser) Candidates() []ClickCandidate {
	return append([]ClickCandidate(nil), c.candidates...)
}

// Open reports whether the chooser is still shown.
func (c *Chooser) Open() bool { return c != nil && c.open }

// Previewed returns the feature id currently previewed, if any.
func (c *Chooser) Previewed() string { return c.previewed }

// Hover previews the candidate with featureID.
func (c *Chooser) Hover(featureID string) (*models.GraphNode, bool) {
	n, ok := c.find(featureID)
	if ok {
		c.previewed = featureID
	}
	return n, ok
}

// Commit selects the candidate with featureID and closes the chooser.
func (c *Chooser) Commit(featureID string) (*models.GraphNode, bool) {
	n, ok := c.find(featureID)
	if ok {
		c.open = false
		c.previewed = ""
	}
	return n, ok
}

// Dismiss closes the chooser. It reports whether a preview was showing.
func (c *Chooser) Dismiss() bool {
	if !c.Open() {
		return false
	}
	hadPreview := c.previewed != ""
	c.open = false
	c.previewed = ""
	return hadPreview
}

func (c *Chooser) find(featureID string) (*models.GraphNode, bool) {
	if !c.Open() {
		return nil, false
	}
	for _, cand := range c.candidates {
		if cand.FeatureID == featureID {
			return cand.Node, true
		}
	}
	return nil, false
}

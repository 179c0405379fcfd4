// Package search finds flowchart nodes by query
package search

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// FilterExpr represents a filter expression that can match nodes
type FilterExpr interface {
	Matches(n model.FlowNode, g *Graph) bool
	String() string // For debug output
}

// Graph holds per-node connection counts of a diagram
type Graph struct {
	in  map[string]int
	out map[string]int
}

// NewGraph indexes the connections of d
func NewGraph(d model.FlowchartData) *Graph {
	g := &Graph{in: make(map[string]int), out: make(map[string]int)}
	for _, c := range d.Connections {
		g.out[c.From.NodeID]++
		g.in[c.To.NodeID]++
	}
	return g
}

// TextExpr matches nodes whose text contains the search term (case-insensitive)
type TextExpr struct {
	term string
}

func NewTextExpr(term string) *TextExpr {
	return &TextExpr{term: strings.ToLower(term)}
}

func (e *TextExpr) Matches(n model.FlowNode, _ *Graph) bool {
	return strings.Contains(strings.ToLower(n.Text), e.term)
}

func (e *TextExpr) String() string {
	return fmt.Sprintf("text(%q)", e.term)
}

// FuzzyExpr matches nodes whose text fuzzy-matches the search term (case-insensitive)
type FuzzyExpr struct {
	term string
}

func NewFuzzyExpr(term string) *FuzzyExpr {
	return &FuzzyExpr{term: term}
}

func (e *FuzzyExpr) Matches(n model.FlowNode, _ *Graph) bool {
	return fuzzy.MatchFold(e.term, n.Text)
}

func (e *FuzzyExpr) String() string {
	return fmt.Sprintf("fuzzy(%q)", e.term)
}

// RegexExpr matches nodes whose text matches a regular expression pattern
type RegexExpr struct {
	pattern string
	re      *regexp.Regexp
}

func NewRegexExpr(pattern string) (*RegexExpr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexExpr{pattern: pattern, re: re}, nil
}

func (e *RegexExpr) Matches(n model.FlowNode, _ *Graph) bool {
	return e.re.MatchString(n.Text)
}

func (e *RegexExpr) String() string {
	return fmt.Sprintf("regex(/%s/)", e.pattern)
}

// TypeFilter matches nodes of one type
type TypeFilter struct {
	nodeType model.FlowNodeType
}

// NewTypeFilter accepts a full type name or a unique prefix of one
func NewTypeFilter(criteria string) (*TypeFilter, error) {
	var found []model.FlowNodeType
	for _, t := range model.AllNodeTypes() {
		if string(t) == criteria {
			return &TypeFilter{nodeType: t}, nil
		}
		if criteria != "" && strings.HasPrefix(string(t), criteria) {
			found = append(found, t)
		}
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("unknown node type: %q", criteria)
	}
	return &TypeFilter{nodeType: found[0]}, nil
}

func (e *TypeFilter) Matches(n model.FlowNode, _ *Graph) bool {
	return n.Type == e.nodeType
}

func (e *TypeFilter) String() string {
	return fmt.Sprintf("type(%s)", e.nodeType)
}

// IDFilter matches nodes whose ID starts with a prefix
type IDFilter struct {
	prefix string
}

func NewIDFilter(prefix string) *IDFilter {
	return &IDFilter{prefix: prefix}
}

func (e *IDFilter) Matches(n model.FlowNode, _ *Graph) bool {
	return strings.HasPrefix(n.ID, e.prefix)
}

func (e *IDFilter) String() string {
	return fmt.Sprintf("id(%s*)", e.prefix)
}

// DegreeFilter compares the number of incoming or outgoing connections
type DegreeFilter struct {
	direction FilterType
	op        ComparisonOp
	value     int
}

func NewDegreeFilter(direction FilterType, op ComparisonOp, value string) (*DegreeFilter, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid connection count: %s", value)
	}
	return &DegreeFilter{direction: direction, op: op, value: n}, nil
}

func (e *DegreeFilter) Matches(n model.FlowNode, g *Graph) bool {
	if g == nil {
		return compare(0, e.op, e.value)
	}
	count := g.out[n.ID]
	if e.direction == FilterTypeIn {
		count = g.in[n.ID]
	}
	return compare(count, e.op, e.value)
}

func (e *DegreeFilter) String() string {
	return fmt.Sprintf("%s(%s%d)", e.direction, e.op, e.value)
}

// AttributeFilter checks the optional fields of a node. Without an operator
// it matches when the field is set.
type AttributeFilter struct {
	key   string
	op    ComparisonOp
	value string
}

var attributes = map[string]func(model.FlowNode) string{
	"fill":   func(n model.FlowNode) string { return n.FillColor },
	"stroke": func(n model.FlowNode) string { return n.StrokeColor },
	"image":  func(n model.FlowNode) string { return n.ImageURL },
}

func NewAttrFilter(key string, op ComparisonOp, value string) (*AttributeFilter, error) {
	if _, ok := attributes[key]; !ok {
		return nil, fmt.Errorf("unknown attribute: @%s", key)
	}
	return &AttributeFilter{key: key, op: op, value: value}, nil
}

func (e *AttributeFilter) Matches(n model.FlowNode, _ *Graph) bool {
	actual := attributes[e.key](n)
	switch e.op {
	case OpEqual:
		return strings.EqualFold(actual, e.value)
	case OpNotEqual:
		return !strings.EqualFold(actual, e.value)
	default:
		return actual != ""
	}
}

func (e *AttributeFilter) String() string {
	if e.op == "" {
		return fmt.Sprintf("attr(%s)", e.key)
	}
	return fmt.Sprintf("attr(%s%s%s)", e.key, e.op, e.value)
}

// AlwaysMatchExpr matches every node
type AlwaysMatchExpr struct{}

func NewAlwaysMatchExpr() *AlwaysMatchExpr {
	return &AlwaysMatchExpr{}
}

func (e *AlwaysMatchExpr) Matches(model.FlowNode, *Graph) bool {
	return true
}

func (e *AlwaysMatchExpr) String() string {
	return "all"
}

// AndExpr matches if both sub-expressions match
type AndExpr struct {
	left, right FilterExpr
}

func NewAndExpr(left, right FilterExpr) *AndExpr {
	return &AndExpr{left: left, right: right}
}

func (e *AndExpr) Matches(n model.FlowNode, g *Graph) bool {
	return e.left.Matches(n, g) && e.right.Matches(n, g)
}

func (e *AndExpr) String() string {
	return fmt.Sprintf("(%s AND %s)", e.left, e.right)
}

// OrExpr matches if either sub-expression matches
type OrExpr struct {
	left, right FilterExpr
}

func NewOrExpr(left, right FilterExpr) *OrExpr {
	return &OrExpr{left: left, right: right}
}

func (e *OrExpr) Matches(n model.FlowNode, g *Graph) bool {
	return e.left.Matches(n, g) || e.right.Matches(n, g)
}

func (e *OrExpr) String() string {
	return fmt.Sprintf("(%s OR %s)", e.left, e.right)
}

// NotExpr inverts a sub-expression
type NotExpr struct {
	expr FilterExpr
}

func NewNotExpr(expr FilterExpr) *NotExpr {
	return &NotExpr{expr: expr}
}

func (e *NotExpr) Matches(n model.FlowNode, g *Graph) bool {
	return !e.expr.Matches(n, g)
}

func (e *NotExpr) String() string {
	return fmt.Sprintf("NOT %s", e.expr)
}

func compare(a int, op ComparisonOp, b int) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpGreater:
		return a > b
	case OpGreaterEqual:
		return a >= b
	case OpLess:
		return a < b
	case OpLessEqual:
		return a <= b
	default:
		return false
	}
}

// GetMatchingNodes returns the nodes of d matching filterExpr in diagram order
func GetMatchingNodes(d model.FlowchartData, filterExpr FilterExpr) []model.FlowNode {
	g := NewGraph(d)
	var result []model.FlowNode
	for _, n := range d.Nodes {
		if filterExpr.Matches(n, g) {
			result = append(result, n)
		}
	}
	return result
}

// FindNodes parses query and returns the matching nodes. When the query is
// plain text the closest fuzzy matches come first.
func FindNodes(d model.FlowchartData, query string) ([]model.FlowNode, error) {
	expr, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}
	result := GetMatchingNodes(d, expr)

	if f, ok := expr.(*FuzzyExpr); ok {
		slices.SortStableFunc(result, func(a, b model.FlowNode) int {
			return fuzzy.RankMatchFold(f.term, a.Text) - fuzzy.RankMatchFold(f.term, b.Text)
		})
	}
	return result, nil
}

package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// Severity ranks an Issue. Only errors fail ValidateGraph.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding of Lint.
type Issue struct {
	Severity Severity
	// Node is the key of the node, or "start".
	Node    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: node '%s': %s", i.Severity, i.Node, i.Message)
}

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// ValidateGraph lints d and fails when any issue is an error.
func ValidateGraph(d *domain.Dialogue) error {
	var errs []string
	for _, issue := range Lint(d) {
		if issue.Severity == SeverityError {
			errs = append(errs, fmt.Sprintf("node '%s': %s", issue.Node, issue.Message))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return nil
}

// Lint checks a compiled dialogue for problems the compiler accepts:
// nodes no entry can reach, non-end nodes without edges, selectors that
// only lead back to themselves, and placeholders with no argument.
func Lint(d *domain.Dialogue) []Issue {
	var issues []Issue
	nodes := d.Nodes()

	reached := reachable(d)
	for i, n := range nodes {
		name := nodeName(i, &n)
		if !reached[i] {
			issues = append(issues, Issue{SeverityWarning, name, "unreachable from the start node"})
		}
		if n.Kind != domain.NodeEnd && len(n.Edges) == 0 {
			issues = append(issues, Issue{SeverityError, name, "has no edges and is not an end node: the dialogue would get stuck"})
		}
		issues = append(issues, placeholders(name, n.Text, n.TextArguments)...)
		for _, e := range n.Sequence {
			issues = append(issues, placeholders(name, e.Text, e.TextArguments)...)
		}
		for _, e := range n.Edges {
			issues = append(issues, placeholders(name, e.Text, e.TextArguments)...)
		}
	}
	for _, e := range d.StartNode().Edges {
		issues = append(issues, placeholders("start", e.Text, e.TextArguments)...)
	}

	for _, cycle := range selectorCycles(nodes) {
		names := make([]string, len(cycle))
		for i, idx := range cycle {
			names[i] = nodeName(idx, &nodes[idx])
		}
		issues = append(issues, Issue{SeverityError, names[0], "selector cycle: " + strings.Join(append(names, names[0]), " -> ")})
	}
	return issues
}

func nodeName(index int, n *domain.Node) string {
	if n.Key != "" {
		return n.Key
	}
	return fmt.Sprintf("#%d", index)
}

// reachable walks every edge from the start node, ignoring conditions.
func reachable(d *domain.Dialogue) map[int]bool {
	visited := make(map[int]bool)
	var queue []int
	for _, e := range d.StartNode().Edges {
		queue = append(queue, e.TargetIndex)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		n, ok := d.Node(current)
		if !ok {
			continue
		}
		for _, e := range n.Edges {
			if !visited[e.TargetIndex] {
				queue = append(queue, e.TargetIndex)
			}
		}
	}
	return visited
}

// selectorCycles finds cycles made only of selector nodes. Entering one never
// stops to offer options.
func selectorCycles(nodes []domain.Node) [][]int {
	const (
		white = iota
		grey
		black
	)
	color := make([]int, len(nodes))
	var (
		stack  []int
		cycles [][]int
		visit  func(int)
	)
	visit = func(i int) {
		color[i] = grey
		stack = append(stack, i)
		for _, e := range nodes[i].Edges {
			t := e.TargetIndex
			if t < 0 || t >= len(nodes) || nodes[t].Kind != domain.NodeSelector {
				continue
			}
			switch color[t] {
			case white:
				visit(t)
			case grey:
				for j := len(stack) - 1; j >= 0; j-- {
					if stack[j] == t {
						cycles = append(cycles, append([]int(nil), stack[j:]...))
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[i] = black
	}
	for i := range nodes {
		if nodes[i].Kind == domain.NodeSelector && color[i] == white {
			visit(i)
		}
	}
	return cycles
}

func placeholders(node, text string, args []domain.TextArgument) []Issue {
	if !strings.Contains(text, "{") {
		return nil
	}
	known := make(map[string]bool, len(args))
	for _, a := range args {
		known[a.DisplayString] = true
	}
	missing := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		if !known[m[1]] {
			missing[m[1]] = true
		}
	}
	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []Issue
	for _, name := range names {
		issues = append(issues, Issue{SeverityWarning, node, fmt.Sprintf("placeholder {%s} has no text argument", name)})
	}
	return issues
}

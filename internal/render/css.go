package render

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/purg-com/pleroma-iss/internal/directive"
	"github.com/purg-com/pleroma-iss/internal/engine"
)

// CSS writes static variables as a :root block, then one block per rule.
// Directive keys become custom properties; virtual children's colours
// follow the rule's own directives.
func CSS(w io.Writer, static map[string]directive.Resolved, rules []engine.ResolvedRule) error {
	out := bufio.NewWriter(w)

	if len(static) > 0 {
		writeBlock(out, ":root", static, nil)
	}
	for _, rule := range rules {
		selector := rule.Selector
		if selector == "" {
			selector = ":root"
		}
		writeBlock(out, selector, rule.Directives, rule.Virtual)
	}
	return out.Flush()
}

func writeBlock(out *bufio.Writer, selector string, sets ...map[string]directive.Resolved) {
	fmt.Fprintf(out, "%s {\n", selector)
	for _, set := range sets {
		keys := make([]string, 0, len(set))
		for key := range set {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(out, "  %s: %s;\n", propertyName(key), set[key].CSS())
		}
	}
	out.WriteString("}\n\n")
}

func propertyName(key string) string {
	if directive.IsVariable(key) {
		return key
	}
	return directive.VariablePrefix + key
}

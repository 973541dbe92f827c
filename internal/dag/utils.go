package dag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// formatTraversal converts an hcl.Traversal to a human-readable string for
// logging and error messages.
func formatTraversal(t hcl.Traversal) string {
	var sb strings.Builder
	for i, part := range t {
		switch p := part.(type) {
		case hcl.TraverseRoot:
			sb.WriteString(p.Name)
		case hcl.TraverseAttr:
			sb.WriteRune('.')
			sb.WriteString(p.Name)
		case hcl.TraverseIndex:
			sb.WriteRune('[')
			if p.Key.Type() == cty.String {
				sb.WriteString(fmt.Sprintf("%q", p.Key.AsString()))
			} else if p.Key.Type() == cty.Number {
				bf := p.Key.AsBigFloat()
				sb.WriteString(bf.Text('f', -1))
			} else {
				sb.WriteString("...")
			}
			sb.WriteRune(']')
		default:
			if i > 0 {
				sb.WriteRune('.')
			}
			sb.WriteString("?")
		}
	}
	return sb.String()
}

package extract

import (
	"fmt"
	"strconv"
	"strings"

	"loggov/internal/governance/domain"
)

// ExtraArgPrefix names arguments that have no matching hole: the third argument of a template
// with two holes becomes "arg2".
const ExtraArgPrefix = "arg"

// Extract builds the FieldSet for ev. Scope fields come first, then holes paired positionally
// with arguments; a later occurrence of a name overwrites an earlier value. Holes without an
// argument produce no field. Extract never fails: if anything goes wrong the result is empty.
func Extract(ev domain.Event) (fs *domain.FieldSet) {
	defer func() {
		if recover() != nil {
			fs = domain.NewFieldSet()
		}
	}()
	fs = domain.NewFieldSet()
	for _, f := range ev.Scope {
		if f.Name != "" {
			fs.Set(f.Name, f.Value)
		}
	}
	holes := parse(ev.Template).holes
	for i, arg := range ev.Args {
		if i < len(holes) {
			fs.Set(holes[i], arg)
			continue
		}
		fs.Set(ExtraArgPrefix+strconv.Itoa(i), arg)
	}
	return fs
}

// Render formats the template with its arguments. Holes without an argument are left as written.
func Render(tmpl string, args []any) (msg string) {
	defer func() {
		if recover() != nil {
			msg = tmpl
		}
	}()
	t := parse(tmpl)
	var b strings.Builder
	n := 0
	for _, seg := range t.segments {
		if !seg.hole {
			b.WriteString(seg.text)
			continue
		}
		if n < len(args) {
			b.WriteString(fmt.Sprint(args[n]))
		} else {
			b.WriteString(seg.text)
		}
		n++
	}
	return b.String()
}

package term

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders a term in the Polar-like surface syntax used throughout
// diagnostic messages. It is best-effort: good enough to be recognizable in
// an error, not a faithful pretty-printer.
func (t Term) String() string {
	return valueString(t.Value)
}

func valueString(v Value) string {
	switch vv := v.(type) {
	case Variable:
		return string(vv)
	case StringValue:
		return strconv.Quote(string(vv))
	case IntegerValue:
		return strconv.FormatInt(int64(vv), 10)
	case FloatValue:
		return strconv.FormatFloat(float64(vv), 'g', -1, 64)
	case BooleanValue:
		if vv {
			return "true"
		}
		return "false"
	case ListValue:
		parts := make([]string, len(vv))
		for i, t := range vv {
			parts[i] = t.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case RestVariable:
		return "*" + string(vv)
	case DictionaryValue:
		return dictString(vv.Dict)
	case PatternValue:
		return patternString(vv.Pattern)
	case ExternalInstance:
		if vv.ClassTag != "" {
			return fmt.Sprintf("%s{}", vv.ClassTag)
		}
		return fmt.Sprintf("<instance #%d>", vv.InstanceID)
	case Expression:
		parts := make([]string, len(vv.Operands))
		for i, t := range vv.Operands {
			parts[i] = t.String()
		}
		return fmt.Sprintf("%s(%s)", vv.Operator, strings.Join(parts, ", "))
	case Call:
		parts := make([]string, len(vv.Args))
		for i, t := range vv.Args {
			parts[i] = t.String()
		}
		return fmt.Sprintf("%s(%s)", vv.Name, strings.Join(parts, ", "))
	default:
		return "<?>"
	}
}

func patternString(p Pattern) string {
	switch pv := p.(type) {
	case InstanceLiteral:
		return fmt.Sprintf("%s%s", pv.Tag, dictString(pv.Fields))
	case DictionaryPattern:
		return dictString(pv.Fields)
	default:
		return "<?>"
	}
}

func dictString(d Dictionary) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range d.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := d.Get(k)
		fmt.Fprintf(&b, "%s: %s", k, v.String())
	}
	b.WriteByte('}')
	return b.String()
}

package bson

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/kr/text"
)

func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

func jsonString(s string) string {
	var b bytes.Buffer
	writeJSONString(&b, s)
	return b.String()
}

func formatBinary(subtype BinarySubtype, data []byte) string {
	return fmt.Sprintf(`{ "$type" : "%02x", "$binary" : "%s" }`, byte(subtype), base64.StdEncoding.EncodeToString(data))
}

func formatOID(oid ObjectID) string {
	return fmt.Sprintf(`{ "$oid" : "%s" }`, oid.Hex())
}

func formatDateTime(unixMillis int64) string {
	return fmt.Sprintf(`{ "$date" : %d }`, unixMillis)
}

func formatRegex(pattern, options string) string {
	return fmt.Sprintf(`{ "$regex" : %s, "$options" : %s }`, jsonString(pattern), jsonString(options))
}

func formatDBPointer(namespace string, oid ObjectID) string {
	return fmt.Sprintf(`{ "$ref" : "%s", "$id" : "%s" }`, namespace, oid.Hex())
}

func formatTimestamp(seconds, increment uint32) string {
	return fmt.Sprintf(`{ "$timestamp" : { "t" : %d, "i" : %d } }`, seconds, increment)
}

// ToJSON renders doc as canonical extended JSON, per the type table
// mapping every BSON type to its JSON or MongoDB extended-JSON form.
func ToJSON(doc *Document) (string, error) {
	if doc.IsEmpty() {
		return "{}", nil
	}
	it, err := NewIterator(doc)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := renderDocument(&buf, it, false); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderDocument(buf *bytes.Buffer, it *Iterator, array bool) error {
	if array {
		buf.WriteString("[ ")
	} else {
		buf.WriteString("{ ")
	}
	first := true
	var rendErr error
	sep := func(key string) {
		if !first {
			buf.WriteString(", ")
		}
		first = false
		if !array {
			writeJSONKey(buf, key)
			buf.WriteString(" : ")
		}
	}
	renderSub := func(sub *Document, asArray bool) bool {
		if sub.IsEmpty() {
			if asArray {
				buf.WriteString("[]")
			} else {
				buf.WriteString("{}")
			}
			return false
		}
		subIt, err := NewIterator(sub)
		if err != nil {
			rendErr = err
			return true
		}
		if err := renderDocument(buf, subIt, asArray); err != nil {
			rendErr = err
			return true
		}
		return false
	}

	v := &Visitor{
		Double: func(key string, val float64) bool {
			sep(key)
			fmt.Fprintf(buf, "%f", val)
			return false
		},
		UTF8: func(key, val string) bool {
			sep(key)
			writeJSONString(buf, val)
			return false
		},
		Document: func(key string, sub *Document) bool {
			sep(key)
			return renderSub(sub, false)
		},
		Array: func(key string, sub *Document) bool {
			sep(key)
			return renderSub(sub, true)
		},
		Binary: func(key string, subtype BinarySubtype, data []byte) bool {
			sep(key)
			buf.WriteString(formatBinary(subtype, data))
			return false
		},
		Undefined: func(key string) bool {
			sep(key)
			buf.WriteString(`{ "$undefined" : true }`)
			return false
		},
		OID: func(key string, oid ObjectID) bool {
			sep(key)
			buf.WriteString(formatOID(oid))
			return false
		},
		Bool: func(key string, val bool) bool {
			sep(key)
			if val {
				buf.WriteString("true")
			} else {
				buf.WriteString("false")
			}
			return false
		},
		DateTime: func(key string, unixMillis int64) bool {
			sep(key)
			buf.WriteString(formatDateTime(unixMillis))
			return false
		},
		Null: func(key string) bool {
			sep(key)
			buf.WriteString("null")
			return false
		},
		Regex: func(key, pattern, options string) bool {
			sep(key)
			buf.WriteString(formatRegex(pattern, options))
			return false
		},
		DBPointer: func(key, namespace string, oid ObjectID) bool {
			sep(key)
			buf.WriteString(formatDBPointer(namespace, oid))
			return false
		},
		Code: func(key, code string) bool {
			sep(key)
			writeJSONString(buf, code)
			return false
		},
		Symbol: func(key, symbol string) bool {
			sep(key)
			writeJSONString(buf, symbol)
			return false
		},
		CodeWithScope: func(key, code string, scope *Document) bool {
			sep(key)
			buf.WriteString(`{ "$code" : `)
			writeJSONString(buf, code)
			buf.WriteString(`, "$scope" : `)
			if renderSub(scope, false) {
				return true
			}
			buf.WriteString(" }")
			return false
		},
		Int32: func(key string, val int32) bool {
			sep(key)
			fmt.Fprintf(buf, "%d", val)
			return false
		},
		Timestamp: func(key string, seconds, increment uint32) bool {
			sep(key)
			buf.WriteString(formatTimestamp(seconds, increment))
			return false
		},
		Int64: func(key string, val int64) bool {
			sep(key)
			fmt.Fprintf(buf, "%d", val)
			return false
		},
		MaxKey: func(key string) bool {
			sep(key)
			buf.WriteString(`{ "$maxKey" : 1 }`)
			return false
		},
		MinKey: func(key string) bool {
			sep(key)
			buf.WriteString(`{ "$minKey" : 1 }`)
			return false
		},
	}
	if err := VisitAll(it, v); err != nil {
		return err
	}
	if rendErr != nil {
		return rendErr
	}
	if array {
		buf.WriteString(" ]")
	} else {
		buf.WriteString(" }")
	}
	return nil
}

func writeJSONKey(buf *bytes.Buffer, key string) { writeJSONString(buf, key) }

// Pretty renders doc as extended JSON with one element per line, each
// nested document or array's body indented two spaces further than its
// enclosing one via text.Indent.
func Pretty(doc *Document) (string, error) {
	if doc.IsEmpty() {
		return "{}", nil
	}
	it, err := NewIterator(doc)
	if err != nil {
		return "", err
	}
	return prettyRender(it, false)
}

func prettyRender(it *Iterator, array bool) (string, error) {
	var lines []string
	var rendErr error
	add := func(key, val string) {
		if array {
			lines = append(lines, val+",")
			return
		}
		lines = append(lines, jsonString(key)+" : "+val+",")
	}
	renderSub := func(sub *Document, asArray bool) (string, bool) {
		if sub.IsEmpty() {
			if asArray {
				return "[]", true
			}
			return "{}", true
		}
		subIt, err := NewIterator(sub)
		if err != nil {
			rendErr = err
			return "", false
		}
		s, err := prettyRender(subIt, asArray)
		if err != nil {
			rendErr = err
			return "", false
		}
		return s, true
	}

	v := &Visitor{
		Double:    func(key string, val float64) bool { add(key, fmt.Sprintf("%f", val)); return false },
		UTF8:      func(key, val string) bool { add(key, jsonString(val)); return false },
		Binary:    func(key string, subtype BinarySubtype, data []byte) bool { add(key, formatBinary(subtype, data)); return false },
		Undefined: func(key string) bool { add(key, `{ "$undefined" : true }`); return false },
		OID:       func(key string, oid ObjectID) bool { add(key, formatOID(oid)); return false },
		Bool: func(key string, val bool) bool {
			if val {
				add(key, "true")
			} else {
				add(key, "false")
			}
			return false
		},
		DateTime:  func(key string, unixMillis int64) bool { add(key, formatDateTime(unixMillis)); return false },
		Null:      func(key string) bool { add(key, "null"); return false },
		Regex:     func(key, pattern, options string) bool { add(key, formatRegex(pattern, options)); return false },
		DBPointer: func(key, namespace string, oid ObjectID) bool { add(key, formatDBPointer(namespace, oid)); return false },
		Code:      func(key, code string) bool { add(key, jsonString(code)); return false },
		Symbol:    func(key, symbol string) bool { add(key, jsonString(symbol)); return false },
		Int32:     func(key string, val int32) bool { add(key, fmt.Sprintf("%d", val)); return false },
		Timestamp: func(key string, seconds, increment uint32) bool { add(key, formatTimestamp(seconds, increment)); return false },
		Int64:     func(key string, val int64) bool { add(key, fmt.Sprintf("%d", val)); return false },
		MaxKey:    func(key string) bool { add(key, `{ "$maxKey" : 1 }`); return false },
		MinKey:    func(key string) bool { add(key, `{ "$minKey" : 1 }`); return false },
		Document: func(key string, sub *Document) bool {
			s, ok := renderSub(sub, false)
			if !ok {
				return true
			}
			add(key, s)
			return false
		},
		Array: func(key string, sub *Document) bool {
			s, ok := renderSub(sub, true)
			if !ok {
				return true
			}
			add(key, s)
			return false
		},
		CodeWithScope: func(key, code string, scope *Document) bool {
			s, ok := renderSub(scope, false)
			if !ok {
				return true
			}
			add(key, `{ "$code" : `+jsonString(code)+`, "$scope" : `+s+" }")
			return false
		},
	}
	if err := VisitAll(it, v); err != nil {
		return "", err
	}
	if rendErr != nil {
		return "", rendErr
	}
	if len(lines) > 0 {
		lines[len(lines)-1] = strings.TrimSuffix(lines[len(lines)-1], ",")
	}
	open, shut := "{", "}"
	if array {
		open, shut = "[", "]"
	}
	body := text.Indent(strings.Join(lines, "\n"), "  ")
	return open + "\n" + body + "\n" + shut, nil
}

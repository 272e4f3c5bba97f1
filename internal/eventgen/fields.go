package eventgen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/ettle/strcase"
)

// payloadStructFields maps the Avro fields of a payload schema to Go struct
// fields with snake_case JSON tags.
func payloadStructFields(payload *PayloadSchema) ([]jen.Code, error) {
	fields := make([]jen.Code, 0, len(payload.Schema.Fields))
	for _, field := range payload.Schema.Fields {
		typ, optional, err := goFieldType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("schema %q field %q: %w", payload.Schema.Name, field.Name, err)
		}

		tag := strcase.ToSnake(field.Name)
		if optional {
			tag += ",omitempty"
		}

		fields = append(fields, jen.Id(strcase.ToGoPascal(field.Name)).Add(typ).Tag(map[string]string{"json": tag}))
	}
	return fields, nil
}

// goFieldType maps an Avro field type to the Go type of the generated struct
// field. A ["null", T] union maps to T with an omitempty tag, matching how
// optional metadata fields are represented on the wire.
func goFieldType(avroType any) (*jen.Statement, bool, error) {
	switch t := avroType.(type) {
	case string:
		stmt, err := goPrimitiveType(t)
		return stmt, false, err

	case map[string]any:
		if logical, ok := t["logicalType"].(string); ok {
			stmt, err := goLogicalType(logical)
			return stmt, false, err
		}
		switch t["type"] {
		case "array":
			items, _, err := goFieldType(t["items"])
			if err != nil {
				return nil, false, err
			}
			return jen.Index().Add(items), false, nil
		case "map":
			values, _, err := goFieldType(t["values"])
			if err != nil {
				return nil, false, err
			}
			return jen.Map(jen.String()).Add(values), false, nil
		}
		return nil, false, fmt.Errorf("unsupported complex type %v", t["type"])

	case []any:
		if len(t) == 2 && t[0] == "null" {
			stmt, _, err := goFieldType(t[1])
			return stmt, true, err
		}
		return nil, false, fmt.Errorf("unsupported union %v, only [\"null\", T] is supported", t)

	default:
		return nil, false, fmt.Errorf("unsupported type %v", avroType)
	}
}

func goPrimitiveType(name string) (*jen.Statement, error) {
	switch name {
	case "string":
		return jen.String(), nil
	case "boolean":
		return jen.Bool(), nil
	case "int":
		return jen.Int(), nil
	case "long":
		return jen.Int64(), nil
	case "float":
		return jen.Float32(), nil
	case "double":
		return jen.Float64(), nil
	case "bytes":
		return jen.Index().Byte(), nil
	default:
		return nil, fmt.Errorf("unsupported primitive type %q", name)
	}
}

func goLogicalType(name string) (*jen.Statement, error) {
	switch name {
	case "timestamp-millis", "timestamp-micros":
		return jen.Qual("time", "Time"), nil
	case "date":
		return jen.Qual("time", "Time"), nil
	case "uuid":
		return jen.String(), nil
	default:
		return nil, fmt.Errorf("unsupported logical type %q", name)
	}
}

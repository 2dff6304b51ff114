package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var storeSchema string

const storeSchemaURL = "tasks.schema.json"

// Report is the result of verifying a store file.
type Report struct {
	Path     string
	Exists   bool
	Tasks    int
	ParseErr error // set when commands would read the file as an empty collection
	Errors   []error
	Warnings []string
}

// Valid reports whether the file can be used without losing data.
// A missing file is valid.
func (r *Report) Valid() bool {
	return r.ParseErr == nil && len(r.Errors) == 0
}

// Verify checks the store file at path against the store schema and the id
// uniqueness invariant. Unlike Manager, it reports a malformed file instead of
// reading it as empty. Only genuine I/O failures are returned as errors.
func Verify(path string) (*Report, error) {
	report := &Report{
		Path:     path,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report, nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	report.Exists = true

	if len(bytes.TrimSpace(data)) == 0 {
		report.Warnings = append(report.Warnings, "file is empty and is read as an empty collection")
		return report, nil
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		report.ParseErr = fmt.Errorf("not valid JSON, commands read it as empty and the next change overwrites it: %w", err)
		return report, nil
	}
	if list, ok := doc.([]interface{}); ok {
		report.Tasks = len(list)
	}

	schema, err := compileStoreSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		appendSchemaErrors(report, err)
	}

	tasks, err := DecodeTasks(data)
	if err != nil {
		if unreadable(err) {
			report.ParseErr = fmt.Errorf("not a task list, commands read it as empty and the next change overwrites it: %w", err)
			return report, nil
		}
		report.Errors = append(report.Errors, fmt.Errorf("commands refuse to change the file: %w", err))
		return report, nil
	}
	for i, t := range tasks {
		if t.CreatedAt.Raw() || t.UpdatedAt.Raw() {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("[%d] has a timestamp that is not %s, it is kept as stored", i, TimestampLayout))
		}
	}
	checkUniqueIDs(report, tasks)

	return report, nil
}

func compileStoreSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(storeSchemaURL, strings.NewReader(storeSchema)); err != nil {
		return nil, fmt.Errorf("load store schema: %w", err)
	}
	schema, err := compiler.Compile(storeSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile store schema: %w", err)
	}
	return schema, nil
}

func checkUniqueIDs(report *Report, tasks []Task) {
	seen := make(map[int]int, len(tasks))
	for i, t := range tasks {
		if first, ok := seen[t.ID]; ok {
			report.Errors = append(report.Errors, &ValidationError{
				Field: fmt.Sprintf("[%d].id", i),
				Err:   fmt.Errorf("duplicate id %d (first used at [%d])", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
	}
}

func appendSchemaErrors(report *Report, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		report.Errors = append(report.Errors, err)
		return
	}

	collectSchemaErrors(report, ve)
}

func collectSchemaErrors(report *Report, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		report.Errors = append(report.Errors, &ValidationError{
			Field: jsonPointerToPath(err.InstanceLocation),
			Err:   errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(report, cause)
	}
}

// jsonPointerToPath turns "/0/status" into "[0].status".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

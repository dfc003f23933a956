package overrides

import (
	"fmt"
	"sort"
	"strings"

	"shape-prober/internal/diagnostic"
)

// SupportedVersion is the only override file version understood.
const SupportedVersion = "1"

// Validate checks an override file for structural problems.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "override file is nil", "", "")
		return res
	}

	if f.Version != SupportedVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("unsupported override file version %q", f.Version), "", "",
			fmt.Sprintf("use version %q", SupportedVersion))
	}

	seen := map[string]struct{}{}

	for i := range f.Types {
		to := &f.Types[i]
		if strings.TrimSpace(to.Type) == "" {
			res.AddError("missing_type", fmt.Sprintf("types[%d] has no type name", i), "", "")
			continue
		}

		if _, ok := seen[to.Type]; ok {
			res.AddError("duplicate_type", fmt.Sprintf("duplicate override for %q", to.Type), to.Type, "")
			continue
		}
		seen[to.Type] = struct{}{}

		if !strings.Contains(to.Type, ".") {
			res.AddWarning("unqualified_type",
				"type name has no package qualifier and only matches unnamed or builtin types", to.Type, "",
				"use \"pkg/path.Name\" or \"alias.Name\"")
		}

		if !to.HasValue && len(to.Fields) == 0 {
			res.AddWarning("empty_override", "override has neither value nor fields", to.Type, "")
		}

		if to.HasValue && !isScalar(to.Value) {
			res.AddError("non_scalar_value", fmt.Sprintf("value must be a scalar, got %T", to.Value), to.Type, "")
		}

		keys := make([]string, 0, len(to.Fields))
		for k := range to.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if !isScalar(to.Fields[k]) {
				res.AddError("non_scalar_value", fmt.Sprintf("field value must be a scalar, got %T", to.Fields[k]), to.Type, k)
			}
		}
	}

	return res
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int64, uint64, float64:
		return true
	default:
		return false
	}
}

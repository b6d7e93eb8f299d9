package parser

import (
	"strings"

	"revenuelens/internal/model"
)

// FieldResolver 双语列名解析器：把原始行映射为统一口径的行
type FieldResolver struct {
	aliases AliasTable
}

// NewFieldResolver 创建解析器；aliases 为空时使用默认别名表
func NewFieldResolver(aliases AliasTable) *FieldResolver {
	if len(aliases) == 0 {
		aliases = DefaultAliasTable()
	}
	return &FieldResolver{aliases: aliases}
}

// InspectHeaders 检查表头（每个文件一次），报告整族缺失的必需列
func (r *FieldResolver) InspectHeaders(headers []string) ResolveReport {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[NormalizeColumnName(h)] = struct{}{}
	}

	report := ResolveReport{
		Headers:        headers,
		MissingFields:  []Field{},
		MissingColumns: []string{},
	}
	for _, field := range requiredFamilies {
		found := false
		for _, alias := range r.aliases[field] {
			if _, ok := present[alias]; ok {
				found = true
				break
			}
		}
		if !found {
			report.MissingFields = append(report.MissingFields, field)
			report.MissingColumns = append(report.MissingColumns, r.familyName(field))
		}
	}
	return report
}

func (r *FieldResolver) familyName(field Field) string {
	return strings.Join(r.aliases[field], " / ")
}

// Resolve 解析单行
func (r *FieldResolver) Resolve(row model.RawRow) model.NormalizedRow {
	label := strings.TrimSpace(r.lookup(row, FieldLabel))
	if label == "" {
		label = model.NoLabel
	}

	description := r.lookup(row, FieldDescription)

	// 两个收益列相加，而不是二选一
	earning := ParseEarning(r.lookupRaw(row, FieldEarningVI)) + ParseEarning(r.lookupRaw(row, FieldEarningEN))

	return model.NormalizedRow{
		Title:       strings.TrimSpace(r.lookup(row, FieldTitle)),
		Label:       label,
		AssetID:     strings.TrimSpace(r.lookup(row, FieldAssetID)),
		DateText:    strings.TrimSpace(r.lookup(row, FieldDate)),
		Description: description,
		Earning:     earning,
		Hashtags:    ExtractHashtags(description),
	}
}

// lookup 按别名顺序取第一个非空值
func (r *FieldResolver) lookup(row model.RawRow, field Field) string {
	for _, alias := range r.aliases[field] {
		v, ok := row[alias]
		if !ok {
			continue
		}
		if s := CellString(v); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// lookupRaw 按别名顺序取第一个存在的原始值（收益列需要保留数值类型）
func (r *FieldResolver) lookupRaw(row model.RawRow, field Field) any {
	for _, alias := range r.aliases[field] {
		if v, ok := row[alias]; ok && v != nil {
			return v
		}
	}
	return nil
}

package parser

// Field 规范字段
type Field string

const (
	FieldTitle       Field = "title"
	FieldLabel       Field = "label"
	FieldAssetID     Field = "assetId"
	FieldDate        Field = "date"
	FieldDescription Field = "description"
	FieldEarningVI   Field = "earningVi" // 越南语收益列
	FieldEarningEN   Field = "earningEn" // 英语收益列
)

// AliasTable 规范字段 -> 列名别名（按优先级排列，大小写敏感）
type AliasTable map[Field][]string

// DefaultAliasTable 内容变现导出文件的默认别名表
func DefaultAliasTable() AliasTable {
	return AliasTable{
		FieldTitle:       {"Title", "Tiêu đề"},
		FieldLabel:       {"Custom labels", "Nhãn tùy chỉnh"},
		FieldAssetID:     {"Post ID", "Video asset ID", "ID tài sản video"},
		FieldDate:        {"Date", "Ngày"},
		FieldDescription: {"Description", "Mô tả"},
		FieldEarningVI:   {"Thu nhập ước tính (USD)"},
		FieldEarningEN:   {"Estimated earnings (USD)"},
	}
}

// requiredFamilies 需要做存在性检查的别名族；缺失只产生警告
var requiredFamilies = []Field{FieldAssetID, FieldDescription}

// ResolveReport 表头检查结果
type ResolveReport struct {
	Headers        []string `json:"headers"`
	MissingFields  []Field  `json:"missingFields"`
	MissingColumns []string `json:"missingColumns"` // 供展示的缺失列族名称
}

// HasMissing 是否缺少必需列族
func (r ResolveReport) HasMissing() bool {
	return len(r.MissingFields) > 0
}

// Missing 指定字段是否缺失
func (r ResolveReport) Missing(field Field) bool {
	for _, f := range r.MissingFields {
		if f == field {
			return true
		}
	}
	return false
}

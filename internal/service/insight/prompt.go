package insight

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"revenuelens/internal/util"
)

// 提示词中最多列出的标签数
const promptLabelLimit = 10

// BuildPrompt 构造越南语点评提示词
func BuildPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("Bạn là chuyên gia phân tích doanh thu nội dung video. ")
	b.WriteString("Hãy viết một nhận xét ngắn (tối đa 5 câu, tiếng Việt) về báo cáo thu nhập dưới đây: ")
	b.WriteString("nêu các nhãn dẫn đầu, tỷ lệ video thu nhập thấp và khoản thưởng dự kiến.\n\n")

	fmt.Fprintf(&b, "Tổng thu nhập: %s USD\n", util.FormatMoney(in.GrandTotal, 2))
	fmt.Fprintf(&b, "Số video: %d\n", in.VideoCount)
	fmt.Fprintf(&b, "Video thu nhập thấp (< 1 USD): %d", in.LowEarningCount)
	if in.VideoCount > 0 {
		fmt.Fprintf(&b, " (%s)", util.FormatPercent(float64(in.LowEarningCount)/float64(in.VideoCount)))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tỷ lệ thưởng: %s%% (thưởng dự kiến %s USD)\n",
		util.FormatMoney(in.BonusPercentage, 1),
		util.FormatMoney(in.GrandTotal*in.BonusPercentage/100, 2))

	b.WriteString("\nThu nhập theo nhãn:\n")
	for i, l := range in.LabelSummaries {
		if i >= promptLabelLimit {
			fmt.Fprintf(&b, "... và %d nhãn khác\n", len(in.LabelSummaries)-promptLabelLimit)
			break
		}
		fmt.Fprintf(&b, "%d. %s: %s USD, %d video\n", i+1, l.Label, util.FormatMoney(l.TotalEarning, 2), l.VideoCount)
	}
	return b.String()
}

// Fingerprint 输入指纹，作为缓存键
func Fingerprint(in Input) string {
	data, _ := json.Marshal(in)
	sum := sha256.Sum256(data)
	return "insight:" + hex.EncodeToString(sum[:16])
}

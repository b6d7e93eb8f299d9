package parser

import (
	"regexp"
	"strings"
)

// reHashtag '#' 后跟一个或多个 Unicode 字母/数字/下划线；标点结束
var reHashtag = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// ExtractHashtags 提取话题标签：小写、去重、保持首次出现顺序
func ExtractHashtags(text string) []string {
	out := []string{}
	if text == "" {
		return out
	}

	seen := make(map[string]struct{})
	for _, m := range reHashtag.FindAllString(text, -1) {
		tag := strings.ToLower(m)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// MergeHashtags 合并标签集合，保留 dst 原有顺序，追加新出现的标签
func MergeHashtags(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[string]struct{}, len(dst))
	for _, h := range dst {
		seen[h] = struct{}{}
	}
	for _, h := range src {
		h = strings.ToLower(h)
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		dst = append(dst, h)
	}
	return dst
}

// NormalizeHashtag 规范化用户输入的话题：补 '#' 并转小写
func NormalizeHashtag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return ""
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}

package agent

import (
	"regexp"
	"strings"
)

// mentionPattern 匹配消息文本中的 @word 标记。
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ParseMentions 提取消息中的全部 @mention 目标：统一小写、去重、保留
// 首次出现顺序。无 mention 时返回空切片。
func ParseMentions(message string) []string {
	matches := mentionPattern.FindAllStringSubmatch(message, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		mentions = append(mentions, name)
	}
	return mentions
}

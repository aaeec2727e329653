// Package naming 实现命名规则引擎：按创建顺序把关键词搬到显示名
// 的固定一侧。纯函数，对自身输出再应用为恒等（幂等）。
package naming

import (
	"regexp"
	"strings"
	"sync"

	"github.com/bitfantasy/plulist/internal/list/entity"
)

var (
	patternMu    sync.RWMutex
	patternCache = map[string]*regexp.Regexp{}

	collapseSpaces = regexp.MustCompile(`\s{2,}`)
	emptyParens    = regexp.MustCompile(`\(\s*\)`)
)

// keywordPattern matches the keyword as a whole word, case-insensitive.
// \b also fires at parenthesis boundaries, so "Banane (Bio)" matches.
func keywordPattern(keyword string) *regexp.Regexp {
	patternMu.RLock()
	re, ok := patternCache[keyword]
	patternMu.RUnlock()
	if ok {
		return re
	}
	re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	patternMu.Lock()
	patternCache[keyword] = re
	patternMu.Unlock()
	return re
}

// Apply 依次应用所有启用规则。规则从左到右组合，不可交换；
// 顺序是显式配置。手动改名的条目由调用方跳过本函数。
func Apply(name string, rules []entity.NamingRule) string {
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		name = applyRule(name, rule)
	}
	return name
}

func applyRule(name string, rule entity.NamingRule) string {
	re := keywordPattern(rule.Keyword)
	matches := re.FindAllString(name, -1)
	if len(matches) == 0 {
		return name
	}
	if len(matches) == 1 && positioned(name, rule) {
		return name
	}

	// 摘除关键词，保留原词形（"BIO" 不会被改写成 "Bio"）
	word := matches[0]
	stripped := re.ReplaceAllString(name, "")
	stripped = cleanup(stripped)
	if stripped == "" {
		return word
	}

	if rule.Position == entity.RulePositionPrefix {
		return word + " " + stripped
	}
	return stripped + " " + word
}

// positioned reports whether the name already has the keyword at the
// configured edge.
func positioned(name string, rule entity.NamingRule) bool {
	lower := strings.ToLower(name)
	kw := strings.ToLower(rule.Keyword)
	if rule.Position == entity.RulePositionPrefix {
		return lower == kw || strings.HasPrefix(lower, kw+" ")
	}
	return lower == kw || strings.HasSuffix(lower, " "+kw)
}

// cleanup 摘词后收拢留下的空括号与多余空白
func cleanup(s string) string {
	s = emptyParens.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "( ", "(")
	s = strings.ReplaceAll(s, " )", ")")
	s = collapseSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

package rule

import (
	"sort"
	"strings"

	"github.com/dekarrin/lexgen/internal/regexpr"
)

// Parse reads a rule file's source text and builds the RuleList it
// declares.
//
// Each declaration has the form
//
//	<cond(,cond)*> NAME (option)? ::= PATTERN
//
// or conditions may instead be applied to a whole block:
//
//	<cond(,cond)*> {
//	    NAME (option)? ::= PATTERN
//	    ...
//	}
//
// A line beginning with '|' continues the previous rule's pattern as an
// additional alternative. A '#' starts a line comment. The special
// condition name "*" matches every concrete condition declared anywhere
// else in the file (or "INITIAL" if none are).
func Parse(source string) (RuleList, error) {
	p := &ruleParser{
		refs:    make(map[string]string),
		nextTag: FirstUserTag,
	}
	if err := p.run(source); err != nil {
		return RuleList{}, err
	}

	expandWildcardConditions(p.rules)
	return RuleList{Rules: p.rules}, nil
}

type ruleParser struct {
	rules          []Rule
	refs           map[string]string
	nextTag        int
	blockConds     []string
	inBlock        bool
	pendingIdx     int // index into rules of the most recently added non-ref rule, or -1
	seenRuleNames  map[string]bool
	seenRefNames   map[string]bool
}

func (p *ruleParser) run(source string) error {
	p.pendingIdx = -1
	p.seenRuleNames = make(map[string]bool)
	p.seenRefNames = make(map[string]bool)

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			p.pendingIdx = -1
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if trimmed == "}" {
			if !p.inBlock {
				return newError(lineNo, "unexpected '}' with no open condition block")
			}
			p.inBlock = false
			p.blockConds = nil
			p.pendingIdx = -1
			continue
		}
		if strings.HasPrefix(trimmed, "|") {
			if p.pendingIdx < 0 {
				return newError(lineNo, "'|' continuation with no preceding rule")
			}
			cont := strings.TrimSpace(strings.TrimPrefix(trimmed, "|"))
			p.rules[p.pendingIdx].Pattern += "|" + cont
			expr, err := regexpr.Parse(p.rules[p.pendingIdx].Pattern)
			if err != nil {
				return newError(lineNo, "in continuation of %s: %s", p.rules[p.pendingIdx].Name, err)
			}
			p.rules[p.pendingIdx].Expr = expr
			continue
		}

		if err := p.parseDeclarationLine(lineNo, line); err != nil {
			return err
		}
	}

	if p.inBlock {
		return newError(len(lines), "unterminated condition block")
	}
	return nil
}

// parseDeclarationLine handles everything except blank lines, comments,
// closing braces, and '|' continuations.
func (p *ruleParser) parseDeclarationLine(lineNo int, line string) error {
	rest := line
	conds := p.blockConds
	explicitConds := false

	trimmed := strings.TrimSpace(rest)
	if strings.HasPrefix(trimmed, "<") {
		leading := len(rest) - len(strings.TrimLeft(rest, " \t"))
		content := rest[leading:]
		closeIdx := strings.Index(content, ">")
		if closeIdx < 0 {
			return newError(lineNo, "unterminated condition list")
		}
		condPart := content[1:closeIdx]
		rest = content[closeIdx+1:]
		explicitConds = true

		if strings.TrimSpace(condPart) == "*" {
			conds = []string{"*"}
		} else {
			conds = nil
			for _, c := range strings.Split(condPart, ",") {
				c = strings.TrimSpace(c)
				if c != "" {
					conds = append(conds, c)
				}
			}
			if len(conds) == 0 {
				return newError(lineNo, "empty condition list")
			}
		}

		restTrimmed := strings.TrimSpace(rest)
		if restTrimmed == "{" {
			p.inBlock = true
			p.blockConds = conds
			p.pendingIdx = -1
			return nil
		}
	}

	if conds == nil {
		conds = []string{"INITIAL"}
	}

	return p.parseRuleBody(lineNo, strings.TrimSpace(rest), conds, explicitConds)
}

// parseRuleBody parses "NAME (option)? ::= PATTERN".
func (p *ruleParser) parseRuleBody(lineNo int, body string, conds []string, explicitConds bool) error {
	sepIdx := strings.Index(body, "::=")
	if sepIdx < 0 {
		return newError(lineNo, "expected '::=' in rule declaration")
	}
	head := strings.TrimSpace(body[:sepIdx])
	patternText := strings.TrimSpace(body[sepIdx+3:])
	if patternText == "" {
		return newError(lineNo, "empty pattern")
	}

	name := head
	option := ""
	if openIdx := strings.Index(head, "("); openIdx >= 0 {
		if !strings.HasSuffix(head, ")") {
			return newError(lineNo, "unterminated option for rule %q", head[:openIdx])
		}
		name = strings.TrimSpace(head[:openIdx])
		option = strings.TrimSpace(head[openIdx+1 : len(head)-1])
	}
	if name == "" {
		return newError(lineNo, "missing rule name")
	}

	switch option {
	case "", "ignore", "ref":
	default:
		return newError(lineNo, "unknown rule option %q", option)
	}

	substituted := substituteRefs(patternText, p.refs)

	if option == "ref" {
		if explicitConds || p.inBlock {
			return newError(lineNo, "ref rule %q cannot have start conditions", name)
		}
		if p.seenRefNames[name] {
			return newError(lineNo, "duplicate ref rule %q", name)
		}
		p.seenRefNames[name] = true
		p.refs[name] = "(" + substituted + ")"
		p.pendingIdx = -1
		return nil
	}

	if p.seenRuleNames[name] {
		return newError(lineNo, "duplicate rule %q", name)
	}
	p.seenRuleNames[name] = true

	expr, err := regexpr.Parse(substituted)
	if err != nil {
		return newError(lineNo, "in rule %q: %s", name, err)
	}

	tag := IgnoreTag
	if option == "" {
		tag = p.nextTag
		p.nextTag++
	}

	condsCopy := append([]string(nil), conds...)
	sort.Strings(condsCopy)
	p.rules = append(p.rules, Rule{
		Line:       lineNo,
		Tag:        tag,
		Conditions: condsCopy,
		Name:       name,
		Pattern:    substituted,
		Expr:       expr,
	})
	p.pendingIdx = len(p.rules) - 1
	return nil
}

// substituteRefs replaces every "{name}" occurrence referring to a known
// ref rule with that ref's parenthesized pattern text. "{m}"/"{m,n}"
// closure bounds are left untouched since their contents are purely
// numeric.
func substituteRefs(pattern string, refs map[string]string) string {
	if len(refs) == 0 || !strings.Contains(pattern, "{") {
		return pattern
	}

	var sb strings.Builder
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c != '{' {
			sb.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(pattern[i+1:], '}')
		if end < 0 {
			sb.WriteString(pattern[i:])
			break
		}
		end += i + 1
		name := pattern[i+1 : end]
		if repl, ok := refs[name]; ok && isIdentifier(name) {
			sb.WriteString(repl)
		} else {
			sb.WriteString(pattern[i : end+1])
		}
		i = end + 1
	}
	return sb.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlpha := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
		isDigit := c >= '0' && c <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

// expandWildcardConditions replaces every rule's "*" condition placeholder
// with the full set of concrete condition names used anywhere in rules.
func expandWildcardConditions(rules []Rule) {
	concreteSet := make(map[string]bool)
	for _, r := range rules {
		for _, c := range r.Conditions {
			if c != "*" {
				concreteSet[c] = true
			}
		}
	}
	var concrete []string
	for c := range concreteSet {
		concrete = append(concrete, c)
	}
	if len(concrete) == 0 {
		concrete = []string{"INITIAL"}
	}
	sort.Strings(concrete)

	for i := range rules {
		hasWildcard := false
		for _, c := range rules[i].Conditions {
			if c == "*" {
				hasWildcard = true
				break
			}
		}
		if hasWildcard {
			rules[i].Conditions = append([]string(nil), concrete...)
		}
	}
}

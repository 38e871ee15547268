package grammar

import (
	"sort"
)

type firstEntry struct {
	terms map[string]struct{}
	empty bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		terms: map[string]struct{}{},
	}
}

func (e *firstEntry) add(term string) bool {
	if _, ok := e.terms[term]; ok {
		return false
	}
	e.terms[term] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for term := range target.terms {
		if e.add(term) {
			changed = true
		}
	}
	return changed
}

// firstSet maps a non-terminal to the terminals that can begin its derivations.
type firstSet struct {
	set map[string]*firstEntry
}

func (fst *firstSet) findByName(name string) *firstEntry {
	return fst.set[name]
}

// genFirstSet iterates over the rules until no entry changes. A non-terminal having no rule derives
// nothing, so its entry stays empty and doesn't contain ε either.
func genFirstSet(rules *ruleSet) *firstSet {
	fst := &firstSet{
		set: map[string]*firstEntry{},
	}
	for _, rule := range rules.rules {
		if _, ok := fst.set[rule.LHS]; ok {
			continue
		}
		fst.set[rule.LHS] = newFirstEntry()
	}

	for {
		more := false
		for _, rule := range rules.rules {
			if genRuleFirstEntry(fst, fst.findByName(rule.LHS), rule) {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst
}

func genRuleFirstEntry(fst *firstSet, acc *firstEntry, rule *Rule) bool {
	changed := false
	for _, sym := range rule.RHS {
		if sym.IsTerminal() {
			return acc.add(sym.Text()) || changed
		}

		e := fst.findByName(sym.Text())
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if e == nil || !e.empty {
			return changed
		}
	}
	return acc.addEmpty() || changed
}

// First returns the terminals that can begin a derivation of a non-terminal in lexical order. The
// second result reports whether the non-terminal is nullable.
func (g *Grammar) First(name string) ([]string, bool) {
	e := g.first.findByName(name)
	if e == nil {
		return nil, false
	}
	terms := make([]string, 0, len(e.terms))
	for term := range e.terms {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms, e.empty
}

package grammar

// cyclicSet holds the non-terminals A such that A ⇒+ A. Only such a non-terminal can have infinitely
// many derivations of one input.
type cyclicSet struct {
	set map[string]struct{}
}

func (cs *cyclicSet) contains(name string) bool {
	_, ok := cs.set[name]
	return ok
}

// genCyclicSet links A to B when a rule `A → α B β` has α and β consisting only of nullable
// non-terminals, that is, when A ⇒+ B. A is cyclic when A reaches itself through the links.
func genCyclicSet(rules *ruleSet, nullable *nullableSet) *cyclicSet {
	units := map[string][]string{}
	for _, rule := range rules.rules {
		for i, sym := range rule.RHS {
			if !sym.IsNonTerminal() {
				continue
			}
			if !isNullableExcept(nullable, rule, i) {
				continue
			}
			units[rule.LHS] = append(units[rule.LHS], sym.Text())
		}
	}

	cs := &cyclicSet{
		set: map[string]struct{}{},
	}
	for lhs := range units {
		visited := map[string]struct{}{}
		stack := append([]string{}, units[lhs]...)
		for len(stack) > 0 {
			name := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if name == lhs {
				cs.set[lhs] = struct{}{}
				break
			}
			if _, ok := visited[name]; ok {
				continue
			}
			visited[name] = struct{}{}
			stack = append(stack, units[name]...)
		}
	}
	return cs
}

func isNullableExcept(nullable *nullableSet, rule *Rule, except int) bool {
	for i, sym := range rule.RHS {
		if i == except {
			continue
		}
		if sym.IsTerminal() || !nullable.contains(sym.Text()) {
			return false
		}
	}
	return true
}

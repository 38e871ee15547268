package grammar

// nullableSet holds the non-terminals that derive the empty sequence.
type nullableSet struct {
	set map[string]struct{}
}

func (ns *nullableSet) contains(name string) bool {
	_, ok := ns.set[name]
	return ok
}

func (ns *nullableSet) add(name string) bool {
	if _, ok := ns.set[name]; ok {
		return false
	}
	ns.set[name] = struct{}{}
	return true
}

// genNullableSet computes the nullable non-terminals as the least fixpoint: a rule whose every RHS
// symbol is a nullable non-terminal (trivially, an empty rule) makes its LHS nullable.
func genNullableSet(rules *ruleSet) *nullableSet {
	ns := &nullableSet{
		set: map[string]struct{}{},
	}
	for {
		more := false
		for _, rule := range rules.rules {
			if ns.contains(rule.LHS) {
				continue
			}
			if !ns.isNullableRHS(rule) {
				continue
			}
			if ns.add(rule.LHS) {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return ns
}

func (ns *nullableSet) isNullableRHS(rule *Rule) bool {
	for _, sym := range rule.RHS {
		if sym.IsTerminal() {
			return false
		}
		if !ns.contains(sym.Text()) {
			return false
		}
	}
	return true
}

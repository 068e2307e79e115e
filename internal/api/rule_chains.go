package api

import "context"

// List returns one page of rule chains. params.Type selects CORE or EDGE chains.
func (s RuleChainsService) List(ctx context.Context, params TypedPageParams) (*PageData[RuleChain], error) {
	return listPage[RuleChain](ctx, s, "getRuleChains", params, nil)
}

// Get retrieves a rule chain by ID.
func (s RuleChainsService) Get(ctx context.Context, id string) (*RuleChain, error) {
	return getByID[RuleChain](ctx, s, "getRuleChainById", "ruleChainId", id)
}

// SetRoot makes a rule chain the tenant's root chain.
func (s RuleChainsService) SetRoot(ctx context.Context, id string) (*RuleChain, error) {
	var out RuleChain
	if err := invokeInto(ctx, s, "setRootRuleChain", Call{Params: map[string]any{"ruleChainId": id}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

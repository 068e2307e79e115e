package api

import "context"

// Entity group types.
var EntityGroupTypes = []string{EntityCustomer, EntityAsset, EntityDevice, EntityUser, EntityDashboard, EntityEdge}

// ListByType returns the groups of one entity type owned by the current user's owner.
func (s EntityGroupsService) ListByType(ctx context.Context, groupType string, includeShared bool) ([]EntityGroup, error) {
	groupType, err := NormalizeEntityType(groupType)
	if err != nil {
		return nil, err
	}
	params := map[string]any{"groupType": groupType}
	if includeShared {
		params["includeShared"] = true
	}
	var out []EntityGroup
	if err := invokeInto(ctx, s, "getEntityGroupsByType", Call{Params: params}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get retrieves an entity group by ID.
func (s EntityGroupsService) Get(ctx context.Context, id string) (*EntityGroup, error) {
	return getByID[EntityGroup](ctx, s, "getEntityGroupById", "entityGroupId", id)
}

// Entities returns one page of the group's members as short entity infos.
func (s EntityGroupsService) Entities(ctx context.Context, groupID string, page PageParams) (*PageData[map[string]any], error) {
	return listPage[map[string]any](ctx, s, "getEntities", page, map[string]any{"entityGroupId": groupID})
}

// AddEntities puts the given entity ids into a group.
func (s EntityGroupsService) AddEntities(ctx context.Context, groupID string, ids []string) error {
	call := Call{Params: map[string]any{"entityGroupId": groupID}, Body: ids}
	return invokeInto(ctx, s, "addEntitiesToEntityGroup", call, nil)
}

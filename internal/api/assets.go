package api

import "context"

// List returns one page of the tenant's assets.
func (s AssetsService) List(ctx context.Context, params TypedPageParams) (*PageData[Asset], error) {
	return listPage[Asset](ctx, s, "getTenantAssets", params, nil)
}

// Get retrieves an asset by ID.
func (s AssetsService) Get(ctx context.Context, id string) (*Asset, error) {
	return getByID[Asset](ctx, s, "getAssetById", "assetId", id)
}

// FindByName looks a tenant asset up by its exact name.
func (s AssetsService) FindByName(ctx context.Context, name string) (*Asset, error) {
	var out Asset
	if err := invokeInto(ctx, s, "getTenantAsset", Call{Params: map[string]any{"assetName": name}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Save creates or updates an asset.
func (s AssetsService) Save(ctx context.Context, asset Asset) (*Asset, error) {
	var out Asset
	if err := invokeInto(ctx, s, "saveAsset", Call{Body: asset}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an asset.
func (s AssetsService) Delete(ctx context.Context, id string) error {
	return invokeInto(ctx, s, "deleteAsset", Call{Params: map[string]any{"assetId": id}}, nil)
}

// Types lists the asset types known to the tenant.
func (s AssetsService) Types(ctx context.Context) ([]string, error) {
	return listEntitySubtypes(ctx, s, "getAssetTypes")
}

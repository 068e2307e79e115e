package api

import "context"

// Upload sends image content as multipart. The server derives the image
// type from the part's filename, which is sniffed from content.
func (s ImagesService) Upload(ctx context.Context, content []byte, title, subType string) (*ImageInfo, error) {
	return uploadImage(ctx, s, content, title, subType)
}

func uploadImage(ctx context.Context, r Invoker, content []byte, title, subType string) (*ImageInfo, error) {
	params := map[string]any{"file": content}
	if title != "" {
		params["title"] = title
	}
	if subType != "" {
		params["imageSubType"] = subType
	}
	var out ImageInfo
	if err := invokeInto(ctx, r, "uploadImage", Call{Params: params}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of image infos.
func (s ImagesService) List(ctx context.Context, params ImageListParams) (*PageData[ImageInfo], error) {
	return listPage[ImageInfo](ctx, s, "getImages", params, nil)
}

// Download fetches raw image bytes.
func (s ImagesService) Download(ctx context.Context, imageType, key string) ([]byte, error) {
	res, err := s.Invoke(ctx, "downloadImage", Call{
		Params: map[string]any{"type": imageType, "key": key},
		Header: map[string][]string{"Accept": {"image/*"}},
	})
	if err != nil {
		return nil, err
	}
	return res.Raw, nil
}

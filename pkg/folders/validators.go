package folders

type BreadcrumbQuery struct {
	FolderID *int `query:"folderId" json:"folderId,omitempty" validate:"omitempty,min=1"`
}

type TreeQuery struct {
	RootID *int `query:"rootId" json:"rootId,omitempty" validate:"omitempty,min=1"`
}

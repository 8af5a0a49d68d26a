package repository

// FindBy narrows a search term from free text to an exact discriminator.
type FindBy string

const (
	FindNone     FindBy = ""
	FindAuthor   FindBy = "author"
	FindUsername FindBy = "username"
	FindTag      FindBy = "tag"
)

// OrderKey selects the sort column; SortDir the direction. Like-count
// ordering is descending only.
type OrderKey string

const (
	OrderCreated OrderKey = "created"
	OrderLikes   OrderKey = "likes"
)

type SortDir string

const (
	SortNewest SortDir = "newest"
	SortOldest SortDir = "oldest"
)

// ArticleQuery is the filter/sort/page contract for article listings.
type ArticleQuery struct {
	Search      string
	FindBy      FindBy
	FavoritesOf string // user id; filters to articles that user liked
	ExcludeID   string // omit one article, used for "more from this author"
	Order       OrderKey
	Sort        SortDir
	Page        int
	Size        int
}

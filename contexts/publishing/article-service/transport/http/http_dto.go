package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ArticleListItemDTO is the short shape used by lists and related articles.
type ArticleListItemDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

type ArticleDTO struct {
	ID              int64                `json:"id"`
	Title           string               `json:"title"`
	Content         string               `json:"content"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
	Slug            string               `json:"slug"`
	SimilarArticles []ArticleListItemDTO `json:"similar_articles"`
}

type CreateArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdateArticleRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

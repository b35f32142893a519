package services

// MyQuestionsPerPage is how many questions /myquestions shows at once.
const MyQuestionsPerPage = 3

// TotalPages rounds up; zero items means zero pages.
func TotalPages(total int, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// ClampPage keeps page inside [0, pages-1].
func ClampPage(page int, pages int) int {
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Cut returns at most limit characters of value and whether anything was cut.
func Cut(value string, limit int) (string, bool) {
	runes := []rune(value)
	if len(runes) <= limit {
		return value, false
	}
	return string(runes[:limit]), true
}

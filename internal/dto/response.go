package dto

// DateLayout is the wire form of every civil date.
const DateLayout = "2006-01-02"

// ── pagination ──

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// GetPage page number with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 50
	}
	return p.PageSize
}

// GetOffset row offset
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

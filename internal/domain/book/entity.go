package book

import (
	"sort"
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. AverageRating/RatingCount是书评集合的物化汇总,只能由rating.Aggregator写入
// 2. 无书评时两者均为0(RatingCount == 0 ⟺ AverageRating == 0)
// 3. Genres保存去重、去空白后的类型列表
type Book struct {
	ID              uint
	Title           string
	Author          string
	Description     string
	CoverImageURL   string
	Genres          []string
	PublicationYear int
	Pages           int
	AverageRating   float64
	RatingCount     int64
	CreatedBy       uint // 录入图书的管理员ID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 创建新图书(工厂方法)
// 评分字段初始为0,由书评驱动重算
func NewBook(title, author, description, coverImageURL string, genres []string, publicationYear, pages int, createdBy uint) *Book {
	now := time.Now()
	return &Book{
		Title:           strings.TrimSpace(title),
		Author:          strings.TrimSpace(author),
		Description:     description,
		CoverImageURL:   coverImageURL,
		Genres:          NormalizeGenres(genres),
		PublicationYear: publicationYear,
		Pages:           pages,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// UpdateParams 图书信息更新参数(nil表示不修改)
type UpdateParams struct {
	Title           *string
	Author          *string
	Description     *string
	CoverImageURL   *string
	Genres          []string // nil不修改,空切片清空
	PublicationYear *int
	Pages           *int
}

// ApplyUpdate 更新图书基本信息
// 不涉及评分字段
func (b *Book) ApplyUpdate(p UpdateParams) {
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		b.Author = strings.TrimSpace(*p.Author)
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.CoverImageURL != nil {
		b.CoverImageURL = *p.CoverImageURL
	}
	if p.Genres != nil {
		b.Genres = NormalizeGenres(p.Genres)
	}
	if p.PublicationYear != nil {
		b.PublicationYear = *p.PublicationYear
	}
	if p.Pages != nil {
		b.Pages = *p.Pages
	}
	b.UpdatedAt = time.Now()
}

// HasGenre 是否属于指定类型(忽略大小写)
func (b *Book) HasGenre(genre string) bool {
	for _, g := range b.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// SharesGenre 是否与给定类型列表有交集
func (b *Book) SharesGenre(genres []string) bool {
	for _, g := range genres {
		if b.HasGenre(g) {
			return true
		}
	}
	return false
}

// NormalizeGenres 去空白、去重(忽略大小写,保留首次出现的写法)
func NormalizeGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		key := strings.ToLower(g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, g)
	}
	return out
}

// SortByRating 按平均分降序、评分人数降序、ID升序排序
func SortByRating(books []*Book) {
	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.RatingCount != b.RatingCount {
			return a.RatingCount > b.RatingCount
		}
		return a.ID < b.ID
	})
}

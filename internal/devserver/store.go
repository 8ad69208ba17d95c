package devserver

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/edvin/mitra-admin/internal/model"
)

type account struct {
	user         model.User
	passwordHash []byte
}

type pendingAccount struct {
	user         model.PendingUser
	passwordHash []byte
}

type storedFile struct {
	contentType string
	data        []byte
}

// store is the in-memory state behind the server. Every accessor returns
// copies so handlers never share records.
type store struct {
	mu     sync.RWMutex
	nextID int64

	products   map[int64]model.Product
	links      map[int64]model.OnlineStoreLink
	accounts   map[string]*account
	categories map[int64]model.BusinessCategory
	subsectors map[string]model.SubSector
	articles   map[int64]model.Article
	levels     []model.Level
	pending    map[string]*pendingAccount
	resets     map[string]string
	files      map[string]storedFile
}

func newStore() *store {
	return &store{
		products:   make(map[int64]model.Product),
		links:      make(map[int64]model.OnlineStoreLink),
		accounts:   make(map[string]*account),
		categories: make(map[int64]model.BusinessCategory),
		subsectors: make(map[string]model.SubSector),
		articles:   make(map[int64]model.Article),
		pending:    make(map[string]*pendingAccount),
		resets:     make(map[string]string),
		files:      make(map[string]storedFile),
		levels: []model.Level{
			{ID: "1", Name: model.LevelSuperAdmin},
			{ID: "2", Name: model.LevelAdmin},
			{ID: "3", Name: model.LevelUMKM},
		},
	}
}

// newID must be called with mu held.
func (s *store) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) levelByID(id string) (model.Level, bool) {
	for _, l := range s.levels {
		if l.ID == id {
			return l, true
		}
	}
	return model.Level{}, false
}

func (s *store) levelByName(name string) (model.Level, bool) {
	for _, l := range s.levels {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return model.Level{}, false
}

// --- products ---

type productQuery struct {
	text        string
	categoryID  int64
	subSectorID string
}

func (s *store) listProducts(q productQuery) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text := strings.ToLower(q.text)
	var out []model.Product
	for _, p := range s.products {
		if text != "" && !strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(p.Description), text) {
			continue
		}
		if q.categoryID > 0 && p.BusinessCategoryID != q.categoryID {
			continue
		}
		if q.subSectorID != "" && p.SubSectorID != q.subSectorID {
			continue
		}
		out = append(out, s.expandProduct(p))
	}
	slices.SortFunc(out, func(a, b model.Product) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// expandProduct attaches relations; mu must be held.
func (s *store) expandProduct(p model.Product) model.Product {
	if c, ok := s.categories[p.BusinessCategoryID]; ok {
		p.BusinessCategory = &c
	}
	p.Links = nil
	for _, l := range s.links {
		if l.ProductID == p.ID {
			p.Links = append(p.Links, l)
		}
	}
	slices.SortFunc(p.Links, func(a, b model.OnlineStoreLink) int { return cmp.Compare(a.ID, b.ID) })
	return p
}

func (s *store) product(id int64) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, false
	}
	return s.expandProduct(p), true
}

func (s *store) createProduct(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p.ID = s.newID()
	if !p.Status.Valid() {
		p.Status = model.ProductPending
	}
	p.UploadedAt = &now
	p.CreatedAt = &now
	p.UpdatedAt = &now
	s.products[p.ID] = p
	return s.expandProduct(p)
}

func (s *store) replaceProduct(id int64, pl model.ProductPayload) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return model.Product{}, false
	}
	now := time.Now().UTC()
	p.Name = pl.Name
	p.OwnerName = pl.OwnerName
	p.Description = pl.Description
	p.Price = pl.Price
	p.Stock = pl.Stock
	p.PhoneNumber = pl.PhoneNumber
	p.BusinessCategoryID = pl.BusinessCategoryID
	p.SubSectorID = pl.SubSectorID
	p.Image = pl.Image
	if pl.Status.Valid() {
		p.Status = pl.Status
	}
	p.UpdatedAt = &now
	s.products[id] = p
	return s.expandProduct(p), true
}

func (s *store) deleteProduct(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return false
	}
	delete(s.products, id)
	for lid, l := range s.links {
		if l.ProductID == id {
			delete(s.links, lid)
		}
	}
	return true
}

func (s *store) createLink(productID int64, pl model.LinkPayload) (model.OnlineStoreLink, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return model.OnlineStoreLink{}, false
	}
	l := model.OnlineStoreLink{ID: s.newID(), ProductID: productID, PlatformName: pl.PlatformName, URL: pl.URL}
	s.links[l.ID] = l
	return l, true
}

func (s *store) updateLink(productID, linkID int64, u model.LinkUpdate) (model.OnlineStoreLink, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[linkID]
	if !ok || l.ProductID != productID {
		return model.OnlineStoreLink{}, false
	}
	if u.PlatformName != nil {
		l.PlatformName = *u.PlatformName
	}
	if u.URL != nil {
		l.URL = *u.URL
	}
	s.links[linkID] = l
	return l, true
}

// --- accounts ---

// expandUser attaches the level and product count; mu must be held.
func (s *store) expandUser(u model.User) model.User {
	if l, ok := s.levelByID(u.LevelID); ok {
		u.Level = &l
		u.LevelName = l.Name
	}
	if u.BusinessCategoryID != nil {
		if c, ok := s.categories[*u.BusinessCategoryID]; ok {
			u.BusinessCategory = &c
		}
	}
	u.ProductCount = 0
	for _, p := range s.products {
		if p.UserID == u.ID {
			u.ProductCount++
		}
	}
	return u
}

func (s *store) addAccount(u model.User, hash []byte) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if u.CreatedAt == nil {
		u.CreatedAt = &now
	}
	u.UpdatedAt = &now
	s.accounts[u.ID] = &account{user: u, passwordHash: hash}
	return s.expandUser(u)
}

func (s *store) account(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.User{}, false
	}
	return s.expandUser(a.user), true
}

// findLogin resolves a username or email to the account and its hash.
func (s *store) findLogin(usernameOrEmail string) (model.User, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, usernameOrEmail) || (a.user.Username != "" && a.user.Username == usernameOrEmail) {
			return s.expandUser(a.user), a.passwordHash, true
		}
	}
	return model.User{}, nil, false
}

func (s *store) listAccounts() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, s.expandUser(a.user))
	}
	slices.SortFunc(out, func(a, b model.User) int { return strings.Compare(a.Email, b.Email) })
	return out
}

func (s *store) replaceAccount(id string, pl model.UserPayload) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.User{}, false
	}
	now := time.Now().UTC()
	u := a.user
	u.Name = pl.Name
	u.Email = pl.Email
	u.Username = pl.Username
	u.Gender = pl.Gender
	u.PhoneNumber = pl.PhoneNumber
	u.Image = pl.Image
	u.BusinessName = pl.BusinessName
	u.BusinessStatus = pl.BusinessStatus
	u.LevelID = pl.LevelID
	u.BusinessCategoryID = pl.BusinessCategoryID
	u.VerifiedAt = pl.VerifiedAt
	u.UpdatedAt = &now
	a.user = u
	return s.expandUser(u), true
}

func (s *store) deleteAccount(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return false
	}
	delete(s.accounts, id)
	return true
}

func (s *store) setPassword(id string, hash []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return false
	}
	a.passwordHash = hash
	return true
}

func (s *store) emailTaken(email, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, email) || (username != "" && a.user.Username == username) {
			return true
		}
	}
	for _, p := range s.pending {
		if strings.EqualFold(p.user.Email, email) {
			return true
		}
	}
	return false
}

func (s *store) addPending(p model.PendingUser, hash []byte) model.PendingUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.newID()
	s.pending[p.VerificationToken] = &pendingAccount{user: p, passwordHash: hash}
	return p
}

// takePending removes and returns the registration for token.
func (s *store) takePending(token string) (*pendingAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[token]
	if !ok {
		return nil, false
	}
	delete(s.pending, token)
	return p, true
}

func (s *store) pendingToken(email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for token, p := range s.pending {
		if strings.EqualFold(p.user.Email, email) {
			return token, true
		}
	}
	return "", false
}

func (s *store) addReset(token, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[token] = userID
}

func (s *store) takeReset(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.resets[token]
	delete(s.resets, token)
	return id, ok
}

func (s *store) resetToken(userID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for token, id := range s.resets {
		if id == userID {
			return token, true
		}
	}
	return "", false
}

func (s *store) productsOf(userID string) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Product
	for _, p := range s.products {
		if p.UserID == userID {
			out = append(out, s.expandProduct(p))
		}
	}
	slices.SortFunc(out, func(a, b model.Product) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// --- catalog ---

func (s *store) listCategories() []model.BusinessCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.BusinessCategory, 0, len(s.categories))
	for _, c := range s.categories {
		if ss, ok := s.subsectors[c.SubSectorID]; ok {
			c.SubSector = &ss
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b model.BusinessCategory) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *store) category(id int64) (model.BusinessCategory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if ok {
		if ss, found := s.subsectors[c.SubSectorID]; found {
			c.SubSector = &ss
		}
	}
	return c, ok
}

func (s *store) putCategory(id int64, pl model.BusinessCategoryPayload) (model.BusinessCategory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	c := model.BusinessCategory{CreatedAt: &now}
	if id != 0 {
		existing, ok := s.categories[id]
		if !ok {
			return model.BusinessCategory{}, false
		}
		c = existing
	} else {
		c.ID = s.newID()
	}
	c.Name = pl.Name
	c.Image = pl.Image
	c.SubSectorID = pl.SubSectorID
	c.Description = pl.Description
	c.UpdatedAt = &now
	s.categories[c.ID] = c
	return c, true
}

func (s *store) deleteCategory(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return false
	}
	delete(s.categories, id)
	return true
}

func (s *store) listSubSectors() []model.SubSector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SubSector, 0, len(s.subsectors))
	for _, ss := range s.subsectors {
		out = append(out, ss)
	}
	slices.SortFunc(out, func(a, b model.SubSector) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func (s *store) subSector(id string) (model.SubSector, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ss, ok := s.subsectors[id]
	return ss, ok
}

func (s *store) putSubSector(ss model.SubSector) model.SubSector {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if ss.CreatedAt == nil {
		ss.CreatedAt = &now
	}
	ss.UpdatedAt = &now
	s.subsectors[ss.ID] = ss
	return ss
}

func (s *store) deleteSubSector(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subsectors[id]; !ok {
		return false
	}
	delete(s.subsectors, id)
	return true
}

func (s *store) listLevels() []model.Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.levels)
}

// --- articles ---

func (s *store) listArticles(authorID string) []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Article
	for _, a := range s.articles {
		if authorID == "" || a.AuthorID == authorID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b model.Article) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *store) article(id int64) (model.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[id]
	return a, ok
}

func (s *store) createArticle(a model.Article) model.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	a.ID = s.newID()
	a.CreatedAt = &now
	a.UpdatedAt = &now
	s.articles[a.ID] = a
	return a
}

func (s *store) updateArticle(id int64, u model.ArticleUpdate) (model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return model.Article{}, false
	}
	if u.Title != nil {
		a.Title = *u.Title
		a.Slug = slugify(a.Title)
	}
	if u.Content != nil {
		a.Content = *u.Content
	}
	if u.CategoryID != nil {
		a.CategoryID = *u.CategoryID
	}
	if u.Thumbnail != nil {
		a.Thumbnail = *u.Thumbnail
	}
	if u.IsFeatured != nil {
		a.IsFeatured = *u.IsFeatured
	}
	now := time.Now().UTC()
	a.UpdatedAt = &now
	s.articles[id] = a
	return a, true
}

func (s *store) deleteArticle(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return false
	}
	delete(s.articles, id)
	return true
}

// --- files ---

func (s *store) putFile(name string, f storedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = f
}

func (s *store) file(name string) (storedFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[name]
	return f, ok
}

func slugify(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	title = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, title)
	for strings.Contains(title, "--") {
		title = strings.ReplaceAll(title, "--", "-")
	}
	return strings.Trim(title, "-")
}

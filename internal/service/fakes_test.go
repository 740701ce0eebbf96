package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/auth"
	"github.com/Kerhoff/mizan/internal/llm"
	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/repository"
)

type fakeUsers struct {
	byID map[int64]*models.User
	next int64
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, repository.ErrConflict
		}
	}
	f.next++
	u.ID = f.next
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	for _, u := range f.byID {
		if u.TelegramID != nil && *u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.byID[u.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) ListLinked(_ context.Context) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range f.byID {
		if u.TelegramID != nil {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeIngredients struct {
	byID map[int64]*models.Ingredient
	next int64
	err  error
}

func (f *fakeIngredients) Create(_ context.Context, ing *models.Ingredient) (*models.Ingredient, error) {
	f.next++
	ing.ID = f.next
	f.byID[ing.ID] = ing
	return ing, nil
}

func (f *fakeIngredients) GetByID(_ context.Context, id int64) (*models.Ingredient, error) {
	return f.byID[id], nil
}

func (f *fakeIngredients) GetByIDs(_ context.Context, ids []int64) (map[int64]*models.Ingredient, error) {
	if f.err != nil {
		return nil, f.err
	}
	found := make(map[int64]*models.Ingredient)
	for _, id := range ids {
		if ing, ok := f.byID[id]; ok {
			found[id] = ing
		}
	}
	return found, nil
}

func (f *fakeIngredients) List(_ context.Context, _ repository.CatalogFilters) ([]*models.Ingredient, error) {
	out := []*models.Ingredient{}
	for _, ing := range f.byID {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeIngredients) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRecipes struct {
	byID map[int64]*models.Recipe
	next int64
}

func (f *fakeRecipes) Create(_ context.Context, r *models.Recipe) (*models.Recipe, error) {
	f.next++
	r.ID = f.next
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeRecipes) GetByID(_ context.Context, id int64) (*models.Recipe, error) {
	return f.byID[id], nil
}

func (f *fakeRecipes) GetByIDs(_ context.Context, ids []int64) (map[int64]*models.Recipe, error) {
	found := make(map[int64]*models.Recipe)
	for _, id := range ids {
		if r, ok := f.byID[id]; ok {
			found[id] = r
		}
	}
	return found, nil
}

func (f *fakeRecipes) List(_ context.Context, filters repository.CatalogFilters) ([]*models.Recipe, error) {
	out := []*models.Recipe{}
	for _, r := range f.byID {
		if filters.Query != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(filters.Query)) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRecipes) ListByIngredient(_ context.Context, ingredientID int64) ([]*models.Recipe, error) {
	out := []*models.Recipe{}
	for _, r := range f.byID {
		for _, line := range r.Ingredients {
			if line.IngredientID == ingredientID {
				out = append(out, r)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRecipes) Update(_ context.Context, r *models.Recipe) (*models.Recipe, error) {
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeRecipes) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeMeals struct {
	byID map[int64]*models.Meal
	next int64
}

func (f *fakeMeals) Create(_ context.Context, m *models.Meal) (*models.Meal, error) {
	f.next++
	m.ID = f.next
	if m.EatenAt.IsZero() {
		m.EatenAt = time.Now()
	}
	f.byID[m.ID] = m
	return m, nil
}

func (f *fakeMeals) GetByID(_ context.Context, id int64) (*models.Meal, error) {
	return f.byID[id], nil
}

func (f *fakeMeals) ListByUserBetween(_ context.Context, userID int64, from, to time.Time) ([]*models.Meal, error) {
	out := []*models.Meal{}
	for _, m := range f.byID {
		if m.UserID == userID && !m.EatenAt.Before(from) && m.EatenAt.Before(to) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EatenAt.Before(out[j].EatenAt) })
	return out, nil
}

func (f *fakeMeals) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

// fakePlans resolves recipes at read time like the SQL implementation, so
// deleting a recipe from fakeRecipes leaves a nil Recipe on the entry.
type fakePlans struct {
	plans   []*models.MealPlan
	recipes *fakeRecipes
	next    int64
	listErr error
}

func (f *fakePlans) Upsert(_ context.Context, p *models.MealPlan) (*models.MealPlan, error) {
	for i, existing := range f.plans {
		if existing.UserID == p.UserID && existing.Date.Equal(p.Date) {
			p.ID = existing.ID
			f.plans[i] = p
			return p, nil
		}
	}
	f.next++
	p.ID = f.next
	f.plans = append(f.plans, p)
	return p, nil
}

func (f *fakePlans) GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*models.MealPlan, error) {
	from, to := nutrition.DayWindow(date)
	plans, err := f.ListByUserBetween(ctx, userID, from, to)
	if err != nil || len(plans) == 0 {
		return nil, err
	}
	return plans[0], nil
}

func (f *fakePlans) ListByUserBetween(_ context.Context, userID int64, from, to time.Time) ([]*models.MealPlan, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.MealPlan{}
	for _, p := range f.plans {
		if p.UserID != userID || p.Date.Before(from) || !p.Date.Before(to) {
			continue
		}
		cp := *p
		cp.Entries = make([]models.MealPlanEntry, len(p.Entries))
		for i, e := range p.Entries {
			e.Recipe = f.recipes.byID[e.RecipeID]
			cp.Entries[i] = e
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakePlans) Delete(_ context.Context, userID int64, date time.Time) error {
	for i, p := range f.plans {
		if p.UserID == userID && p.Date.Equal(nutrition.DayStart(date)) {
			f.plans = append(f.plans[:i], f.plans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeGoals struct {
	goals []*models.Goal
}

func (f *fakeGoals) Create(_ context.Context, g *models.Goal) (*models.Goal, error) {
	version := 0
	for _, existing := range f.goals {
		if existing.UserID == g.UserID && existing.Version > version {
			version = existing.Version
		}
	}
	g.Version = version + 1
	g.ID = int64(len(f.goals) + 1)
	f.goals = append(f.goals, g)
	return g, nil
}

func (f *fakeGoals) GetCurrent(_ context.Context, userID int64) (*models.Goal, error) {
	var current *models.Goal
	for _, g := range f.goals {
		if g.UserID == userID && (current == nil || g.Version > current.Version) {
			current = g
		}
	}
	return current, nil
}

func (f *fakeGoals) ListByUser(_ context.Context, userID int64) ([]*models.Goal, error) {
	out := []*models.Goal{}
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

type fakeSuggestions struct {
	stored map[int64]*models.Suggestion
}

func (f *fakeSuggestions) Get(_ context.Context, userID int64, date time.Time) (*models.Suggestion, error) {
	s, ok := f.stored[userID]
	if !ok || !s.Date.Equal(nutrition.DayStart(date)) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSuggestions) Replace(_ context.Context, s *models.Suggestion) (*models.Suggestion, error) {
	cp := *s
	f.stored[s.UserID] = &cp
	return s, nil
}

type fakeSuggester struct {
	names []string
	err   error
	calls int
	last  llm.SuggestRequest
}

func (f *fakeSuggester) SuggestRecipes(_ context.Context, req llm.SuggestRequest) ([]string, error) {
	f.calls++
	f.last = req
	return f.names, f.err
}

type store struct {
	users       *fakeUsers
	ingredients *fakeIngredients
	recipes     *fakeRecipes
	meals       *fakeMeals
	plans       *fakePlans
	goals       *fakeGoals
	suggestions *fakeSuggestions
	suggester   *fakeSuggester
}

func newTestService() (*Service, *store) {
	recipes := &fakeRecipes{byID: map[int64]*models.Recipe{}}
	st := &store{
		users:       &fakeUsers{byID: map[int64]*models.User{}},
		ingredients: &fakeIngredients{byID: map[int64]*models.Ingredient{}},
		recipes:     recipes,
		meals:       &fakeMeals{byID: map[int64]*models.Meal{}},
		plans:       &fakePlans{recipes: recipes},
		goals:       &fakeGoals{},
		suggestions: &fakeSuggestions{stored: map[int64]*models.Suggestion{}},
		suggester:   &fakeSuggester{},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := New(nil, logger, Repositories{
		Users:       st.users,
		Ingredients: st.ingredients,
		Recipes:     st.recipes,
		Meals:       st.meals,
		Plans:       st.plans,
		Goals:       st.goals,
		Suggestions: st.suggestions,
	}, Options{
		Tokens:    auth.NewTokenManager("test-secret", time.Hour),
		Suggester: st.suggester,
		WeekStart: time.Monday,
	})
	return svc, st
}

func (st *store) addIngredient(name string, servingSize float64, unit string, m models.Macros) *models.Ingredient {
	ing, _ := st.ingredients.Create(context.Background(), &models.Ingredient{
		Name: name, ServingSize: servingSize, ServingUnit: unit, Macros: m,
	})
	return ing
}

func (st *store) addRecipe(name string, servings float64, lines ...models.RecipeIngredient) *models.Recipe {
	r, _ := st.recipes.Create(context.Background(), &models.Recipe{
		Name: name, Servings: servings, Ingredients: lines,
	})
	return r
}

func (st *store) addPlan(userID int64, date time.Time, entries ...models.MealPlanEntry) {
	_, _ = st.plans.Upsert(context.Background(), &models.MealPlan{UserID: userID, Date: date, Entries: entries})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

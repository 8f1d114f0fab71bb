package models

// RecipeFilter набор фильтров для выборки рецептов. Пустое значение поля
// означает, что фильтр не применяется. FavoritedBy и InCartOf заполняются
// UID-ом запрашивающего только когда тот аутентифицирован и явно передал
// is_favorited=true / is_in_shopping_cart=true — иначе фильтр no-op.
type RecipeFilter struct {
	AuthorUID   string
	FavoritedBy string
	InCartOf    string
}

package models

// Ingredient справочная запись об ингредиенте: название и единица измерения.
// Справочник неизменяемый, записи создаются миграциями.
type Ingredient struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

package database

import (
	"errors"
	"reflect"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type (
	joinedTables map[string]struct{}
)

const (
	alreadyJoinedKey string = "join-already-joined"
)

var (
	cacheStore = &sync.Map{}
)

// Join adds "JOIN <to> ON <from>.<propertyFromSource> = <to>.<propertyFromDest>".
// Properties are struct field names (or column names) of the two models.
func Join(tx *gorm.DB, modelFromJoin, modelToJoin interface{}, propertyFromSource, propertyFromDest, extraJoinFilters string) (*gorm.DB, error) {
	return join("", tx, modelFromJoin, modelToJoin, propertyFromSource, propertyFromDest, extraJoinFilters)
}

func LeftJoin(tx *gorm.DB, modelFromJoin, modelToJoin interface{}, propertyFromSource, propertyFromDest, extraJoinFilters string) (*gorm.DB, error) {
	return join("LEFT", tx, modelFromJoin, modelToJoin, propertyFromSource, propertyFromDest, extraJoinFilters)
}

// modelFromJoin must be tx.Statement.Model, or tx.Statement.Model must be nil
// (it is then set to modelFromJoin), or modelFromJoin was already joined with
// this function on the same tx.
func join(joinType string, tx *gorm.DB, modelFromJoin, modelToJoin interface{}, propertyFromSource, propertyFromDest, extraJoinFilters string) (*gorm.DB, error) {
	var alreadyJoined joinedTables

	iAlreadyJoined, ok := tx.Get(alreadyJoinedKey)
	if ok {
		alreadyJoined, ok = iAlreadyJoined.(joinedTables)
	}
	if !ok {
		alreadyJoined = make(joinedTables)
	}

	modelFromJoinType, err := structType(modelFromJoin)
	if err != nil {
		return nil, errors.New("modelFromJoin is not a struct")
	}
	if _, err := structType(modelToJoin); err != nil {
		return nil, errors.New("modelToJoin is not a struct")
	}

	modelFromJoinSchema, err := schema.Parse(modelFromJoin, cacheStore, tx.NamingStrategy)
	if err != nil {
		return nil, err
	}

	modelToJoinSchema, err := schema.Parse(modelToJoin, cacheStore, tx.NamingStrategy)
	if err != nil {
		return nil, err
	}

	if tx.Statement.Model != nil {
		modelType, err := structType(tx.Statement.Model)
		if err != nil {
			return nil, err
		}

		if modelFromJoinType != modelType {
			if _, ok := alreadyJoined[modelFromJoinSchema.Table]; !ok {
				return nil, errors.New("model to join from is not valid")
			}
		}
	} else {
		tx = tx.Model(reflect.New(modelFromJoinType).Interface())
	}

	alreadyJoined[modelFromJoinSchema.Table] = struct{}{}

	if _, ok = alreadyJoined[modelToJoinSchema.Table]; ok {
		// joining the same table twice would need aliases
		return nil, errors.New("model already joined")
	}

	columnFromJoin := propertyFromSource
	if f := modelFromJoinSchema.LookUpField(propertyFromSource); f != nil {
		columnFromJoin = f.DBName
	}

	columnToJoin := propertyFromDest
	if f := modelToJoinSchema.LookUpField(propertyFromDest); f != nil {
		columnToJoin = f.DBName
	}

	joinString := "JOIN " + modelToJoinSchema.Table + " ON " + modelFromJoinSchema.Table + "." + columnFromJoin + " = " + modelToJoinSchema.Table + "." + columnToJoin
	if joinType != "" {
		joinString = joinType + " " + joinString
	}

	if extraJoinFilters != "" {
		joinString = joinString + " AND " + extraJoinFilters
	}

	tx = tx.Joins(joinString)

	alreadyJoined[modelToJoinSchema.Table] = struct{}{}

	return tx.Set(alreadyJoinedKey, alreadyJoined), nil
}

func structType(model interface{}) (reflect.Type, error) {
	t := reflect.TypeOf(model)
	for t != nil && (t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice) {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.New("model is not a struct")
	}
	return t, nil
}

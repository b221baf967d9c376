package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
)

func MarshalUUID(id uuid.UUID) graphql.Marshaler {
	return graphql.WriterFunc(func(w io.Writer) {
		w.Write([]byte(strconv.Quote(id.String())))
	})
}

func UnmarshalUUID(i interface{}) (uuid.UUID, error) {
	s, ok := i.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid value")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

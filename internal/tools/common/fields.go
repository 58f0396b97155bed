package common

import "github.com/zbdpay/zbd-mcp/internal/tools/schema"

// Required returns a required string field.
func Required(name, description string) schema.Field {
	return schema.Field{Name: name, Kind: schema.KindString, Required: true, Description: description}
}

// Optional returns an optional string field.
func Optional(name, description string) schema.Field {
	return schema.Field{Name: name, Kind: schema.KindString, Description: description}
}

// Amount returns the required millisatoshi amount field.
func Amount(description string) schema.Field {
	return schema.Field{Name: AmountField, Kind: schema.KindString, Required: true, Description: description, MinLength: schema.Int(1)}
}

// ExpiresIn returns the optional expiry field, in seconds.
func ExpiresIn(description string) schema.Field {
	return schema.Field{Name: "expiresIn", Kind: schema.KindNumber, Description: description}
}

// Package docs holds the generated OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/me/favorites": {
            "get": {
                "tags": [
                    "Favorites"
                ],
                "summary": "Favorite recipes",
                "description": "Resolves each favorite id to a recipe, most recently added first. Ids that no longer resolve are left out.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/me/favorites/ids": {
            "get": {
                "tags": [
                    "Favorites"
                ],
                "summary": "Favorite ids",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/me/favorites/{recipeId}/toggle": {
            "post": {
                "tags": [
                    "Favorites"
                ],
                "summary": "Toggle a favorite",
                "description": "Adds the recipe if absent, removes it if present, and returns the new state.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "recipeId",
                        "in": "path",
                        "required": true,
                        "description": "Recipe ID\"  example(11007)",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/me/favorites/{recipeId}": {
            "put": {
                "tags": [
                    "Favorites"
                ],
                "summary": "Add a favorite",
                "description": "Idempotent.",
                "parameters": [
                    {
                        "name": "recipeId",
                        "in": "path",
                        "required": true,
                        "description": "Recipe ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            },
            "delete": {
                "tags": [
                    "Favorites"
                ],
                "summary": "Remove a favorite",
                "description": "Idempotent.",
                "parameters": [
                    {
                        "name": "recipeId",
                        "in": "path",
                        "required": true,
                        "description": "Recipe ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/ratings/{id}/live": {
            "get": {
                "tags": [
                    "Live"
                ],
                "summary": "Live rating histogram",
                "description": "Websocket. Sends the current histogram, then every new one after a vote.",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Recipe ID",
                        "type": "string"
                    }
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/me/favorites/live": {
            "get": {
                "tags": [
                    "Live"
                ],
                "summary": "Live favorites",
                "description": "Websocket. Sends the caller's favorite ids, then the full list after each change.",
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/ratings/{id}": {
            "get": {
                "tags": [
                    "Ratings"
                ],
                "summary": "Rating histogram",
                "description": "Vote counts per star with total and average (one decimal). Unknown recipes have all zeros.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Recipe ID\"  example(11007)",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "500": {
                        "description": "Internal Server Error"
                    }
                }
            },
            "post": {
                "tags": [
                    "Ratings"
                ],
                "summary": "Record a vote",
                "description": "Adds one vote for star (1 to 5). Votes accumulate; live subscribers receive the new histogram.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Recipe ID\"  example(11007)",
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "description": "Vote",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/taxonomy": {
            "get": {
                "tags": [
                    "Recipes"
                ],
                "summary": "Filter options",
                "description": "Lists every filter category with its accepted values. Glassware is free text.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/recipes": {
            "get": {
                "tags": [
                    "Recipes"
                ],
                "summary": "Search and filter recipes",
                "description": "Case-insensitive name search defines the candidates, then the filters narrow them. Catalog order (by name) is kept.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "required": false,
                        "description": "Name search\"      example(mar)",
                        "type": "string"
                    },
                    {
                        "name": "spirit",
                        "in": "query",
                        "required": false,
                        "description": "Spirit filter\"    example(Tequila)",
                        "type": "string"
                    },
                    {
                        "name": "taste",
                        "in": "query",
                        "required": false,
                        "description": "Taste filter\"     example(Sour)",
                        "type": "string"
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "required": false,
                        "description": "Cocktail, Mocktail or Shot",
                        "type": "string"
                    },
                    {
                        "name": "caffeine",
                        "in": "query",
                        "required": false,
                        "description": "Yes or No",
                        "type": "string"
                    },
                    {
                        "name": "glassware",
                        "in": "query",
                        "required": false,
                        "description": "Glass substring\"  example(coupe)",
                        "type": "string"
                    },
                    {
                        "name": "dietary",
                        "in": "query",
                        "required": false,
                        "description": "Dietary filter\"   example(Vegan)",
                        "type": "string"
                    },
                    {
                        "name": "season",
                        "in": "query",
                        "required": false,
                        "description": "Season filter\"    example(Summer)",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "description": "Items per page",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Unknown filter value"
                    },
                    "503": {
                        "description": "Catalog unavailable"
                    }
                }
            }
        },
        "/recipes/recommendations": {
            "get": {
                "tags": [
                    "Recipes"
                ],
                "summary": "Recommendations",
                "description": "Applies the filters to the full catalog, ignoring any search text.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "spirit",
                        "in": "query",
                        "required": false,
                        "description": "Spirit filter",
                        "type": "string"
                    },
                    {
                        "name": "taste",
                        "in": "query",
                        "required": false,
                        "description": "Taste filter",
                        "type": "string"
                    },
                    {
                        "name": "type",
                        "in": "query",
                        "required": false,
                        "description": "Cocktail, Mocktail or Shot",
                        "type": "string"
                    },
                    {
                        "name": "caffeine",
                        "in": "query",
                        "required": false,
                        "description": "Yes or No",
                        "type": "string"
                    },
                    {
                        "name": "glassware",
                        "in": "query",
                        "required": false,
                        "description": "Glass substring",
                        "type": "string"
                    },
                    {
                        "name": "dietary",
                        "in": "query",
                        "required": false,
                        "description": "Dietary filter",
                        "type": "string"
                    },
                    {
                        "name": "season",
                        "in": "query",
                        "required": false,
                        "description": "Season filter",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "description": "Items per page",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/recipes/random": {
            "get": {
                "tags": [
                    "Recipes"
                ],
                "summary": "Shuffled recipes",
                "description": "Same candidates as GET /recipes in a random order.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "q",
                        "in": "query",
                        "required": false,
                        "description": "Name search",
                        "type": "string"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "description": "Items per page",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/recipes/daily": {
            "get": {
                "tags": [
                    "Recipes"
                ],
                "summary": "Cocktail of the day",
                "description": "The same recipe all day; a new one is drawn on the first request of each day.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/recipes/popular": {
            "get": {
                "tags": [
                    "Recipes"
                ],
                "summary": "Popular recipes",
                "description": "A fixed list of well-known recipes. Entries that cannot be resolved are left out.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/recipes/seasonal": {
            "get": {
                "tags": [
                    "Recipes"
                ],
                "summary": "Seasonal recipes",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/recipes/{id}": {
            "get": {
                "tags": [
                    "Recipes"
                ],
                "summary": "Recipe detail",
                "description": "Resolves seasonal ids, then the cached catalog, then the upstream API. Measures are rescaled to unit and servings.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Recipe ID\"  example(11007)",
                        "type": "string"
                    },
                    {
                        "name": "unit",
                        "in": "query",
                        "required": false,
                        "description": "oz, ml or cl",
                        "type": "string"
                    },
                    {
                        "name": "servings",
                        "in": "query",
                        "required": false,
                        "description": "1, 2, 4 or 8",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "404": {
                        "description": "Not Found"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/catalog/refresh": {
            "post": {
                "tags": [
                    "Recipes"
                ],
                "summary": "Reload the catalog",
                "description": "Forces a full reload from the upstream API. On failure the previous snapshot keeps serving.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/ingredients": {
            "get": {
                "tags": [
                    "Ingredients"
                ],
                "summary": "Ingredient names",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/ingredients/{name}": {
            "get": {
                "tags": [
                    "Ingredients"
                ],
                "summary": "Ingredient detail",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "description": "Ingredient name\"  example(Vodka)",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Not Found"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/cocktails": {
            "post": {
                "tags": [
                    "Cocktails"
                ],
                "summary": "Submit a cocktail",
                "description": "Supports idempotency via the Idempotency-Key header (same key, same result).",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "Idempotency-Key",
                        "in": "header",
                        "required": false,
                        "description": "Idempotency key for safe retries\"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)",
                        "type": "string"
                    },
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "description": "Cocktail",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created"
                    },
                    "400": {
                        "description": "Validation failed"
                    },
                    "409": {
                        "description": "Duplicate name"
                    },
                    "503": {
                        "description": "Id allocation failed"
                    }
                }
            },
            "get": {
                "tags": [
                    "Cocktails"
                ],
                "summary": "List submitted cocktails",
                "description": "Sorted by name. Supports weak ETag via If-None-Match and may return 304.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "If-None-Match",
                        "in": "header",
                        "required": false,
                        "description": "Return 304 if ETag matches",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "description": "Page number",
                        "type": "integer"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "description": "Items per page",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "304": {
                        "description": "Not Modified"
                    },
                    "500": {
                        "description": "Internal Server Error"
                    }
                }
            }
        },
        "/cocktails/{slug}": {
            "get": {
                "tags": [
                    "Cocktails"
                ],
                "summary": "Submitted cocktail detail",
                "description": "Returns the cocktail in recipe form with measures rescaled to unit and servings.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "slug",
                        "in": "path",
                        "required": true,
                        "description": "Cocktail slug\"  example(paloma)",
                        "type": "string"
                    },
                    {
                        "name": "unit",
                        "in": "query",
                        "required": false,
                        "description": "oz, ml or cl",
                        "type": "string"
                    },
                    {
                        "name": "servings",
                        "in": "query",
                        "required": false,
                        "description": "1, 2, 4 or 8",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            }
        },
        "/me/profile": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Current user's profile",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "404": {
                        "description": "Not Found"
                    }
                }
            },
            "put": {
                "tags": [
                    "Users"
                ],
                "summary": "Create or update the current user's profile",
                "description": "isOver18 must be true and fullName non-empty. createdAt is set on the first save only.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "description": "Profile",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "401": {
                        "description": "Unauthorized"
                    },
                    "403": {
                        "description": "Under 18"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Cocktail Backend API",
	Description:      "Recipe catalog, ratings, favorites, profiles and community submissions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

package handler

import (
	"charmtap/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupCharacter struct {
	container *do.Injector
}

func (gr *groupCharacter) GetCharacters(c echo.Context) error {
	serviceCatalog, err := do.Invoke[*services.ServiceCatalog](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	characters, err := serviceCatalog.GetActiveCharacters(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, characters, nil)
}

func (gr *groupCharacter) GetCharacter(c echo.Context) error {
	serviceCatalog, err := do.Invoke[*services.ServiceCatalog](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	character, err := serviceCatalog.FindCharacterBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, character, nil)
}

package extract

import (
	"testing"

	"github.com/DeusData/codebase-atlas/internal/schema"
)

func TestJavaScriptExtraction(t *testing.T) {
	source := []byte(`// checkout helpers
import { total } from "./cart.js";
import React from "react";

export function checkout(cart, coupon = null) {
  if (!cart.items.length && !coupon) {
    return null;
  }
  const tax = computeTax(cart);
  return new Order(cart, tax);
}

const computeTax = (cart) => {
  return cart.total * 0.2;
};

class Order {
  static kind = "order";

  constructor(cart, tax) {
    this.cart = cart;
    this.tax = tax;
  }

  total() {
    return this.cart.total + this.tax;
  }
}
`)
	result := NewJavaScriptParser().ParseSource(source, "web/checkout.js")
	mod := result.Modules[0]
	if mod.Docstring != "checkout helpers" {
		t.Errorf("module docstring = %q", mod.Docstring)
	}

	checkout := findFunction(t, result, "checkout")
	if checkout.Complexity != 3 {
		t.Errorf("checkout complexity = %d, want 3 (if + &&)", checkout.Complexity)
	}
	if len(checkout.Parameters) != 2 || checkout.Parameters[1].Default != "null" {
		t.Errorf("checkout params = %+v", checkout.Parameters)
	}
	if !containsString(callNames(checkout), "computeTax") {
		t.Errorf("checkout calls = %v", callNames(checkout))
	}
	var inst *schema.Reference
	for i, ref := range checkout.Calls {
		if ref.Kind == schema.KindInstantiation {
			inst = &checkout.Calls[i]
		}
	}
	if inst == nil || inst.Name != "Order" {
		t.Fatalf("new Order should record an instantiation, calls = %+v", checkout.Calls)
	}

	// Arrow functions take the declarator's name.
	if computeTax := findFunction(t, result, "computeTax"); computeTax.StartLine != 13 {
		t.Errorf("computeTax start line = %d, want 13", computeTax.StartLine)
	}

	order := findClass(t, result, "Order")
	if !containsString(order.Properties, "kind") {
		t.Errorf("Order properties = %v", order.Properties)
	}
	if !containsString(order.Methods, "constructor") || !containsString(order.Methods, "total") {
		t.Errorf("Order methods = %v", order.Methods)
	}

	totalFn := findFunction(t, result, "total")
	if totalFn.Owner != "Order" {
		t.Errorf("total owner = %q", totalFn.Owner)
	}
}

func TestJavaScriptImports(t *testing.T) {
	source := []byte(`import { a, b } from "./util.js";
import * as fs from "fs";
import "./polyfill.js";
`)
	result := NewJavaScriptParser().ParseSource(source, "web/app.js")
	mod := result.Modules[0]
	if len(mod.Imports) != 3 {
		t.Fatalf("imports = %+v", mod.Imports)
	}

	byModule := map[string]schema.Import{}
	for _, imp := range mod.Imports {
		byModule[imp.Module] = imp
	}
	util := byModule["./util.js"]
	if util.Style != schema.ImportSelective || len(util.Names) != 2 {
		t.Errorf("named import = %+v", util)
	}
	if fs := byModule["fs"]; fs.Alias != "fs" || fs.Style != schema.ImportDirect {
		t.Errorf("namespace import = %+v", fs)
	}
	if poly := byModule["./polyfill.js"]; poly.Style != schema.ImportDirect {
		t.Errorf("side-effect import = %+v", poly)
	}
}

func TestJavaScriptRequire(t *testing.T) {
	source := []byte(`const path = require("path");

function load(name) {
  return require(name);
}
`)
	result := NewJavaScriptParser().ParseSource(source, "web/loader.js")
	mod := result.Modules[0]
	if len(mod.Imports) != 2 {
		t.Fatalf("imports = %+v", mod.Imports)
	}

	var styles []string
	for _, imp := range mod.Imports {
		styles = append(styles, imp.Style)
	}
	if !containsString(styles, schema.ImportDirect) || !containsString(styles, schema.ImportDynamic) {
		t.Errorf("require styles = %v", styles)
	}
	// require sites become imports, not call references
	load := findFunction(t, result, "load")
	if len(load.Calls) != 0 {
		t.Errorf("load calls = %+v", load.Calls)
	}
}

func TestJavaScriptMethodCallNames(t *testing.T) {
	source := []byte(`class Cart {
  refresh() {
    this.render();
    api.fetchItems();
  }
}
`)
	result := NewJavaScriptParser().ParseSource(source, "web/cart.js")
	refresh := findFunction(t, result, "refresh")
	calls := callNames(refresh)
	if !containsString(calls, "render") {
		t.Errorf("this-prefixed call should be stripped, calls = %v", calls)
	}
	if !containsString(calls, "api.fetchItems") {
		t.Errorf("dotted call should keep its path, calls = %v", calls)
	}
}

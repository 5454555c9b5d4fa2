package main

import (
	"fmt"

	"biblioteca/library"
)

func (s *session) categoriesMenu() {
	for {
		choice := menu(s.sc, "CATEGORY MANAGEMENT", []string{
			"List categories", "Add category", "Update category", "Delete category", "Back",
		})
		switch choice {
		case 1:
			s.listCategories()
			waitEnter(s.sc)
		case 2:
			s.addCategory()
		case 3:
			s.updateCategory()
		case 4:
			s.deleteCategory()
		case 5:
			return
		}
	}
}

func (s *session) listCategories() {
	cats, err := s.mgr.DB().GetCategories()
	if err != nil {
		failf("Could not list categories: %v", err)
		return
	}
	if len(cats) == 0 {
		warnf("No categories registered")
		return
	}
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{c.CDJ, c.Name, truncate(c.Description, 50)})
	}
	renderTable([]string{"CDJ", "Name", "Description"}, rows)
}

func (s *session) addCategory() {
	title("ADD CATEGORY")
	cdj, ok := prompt(s.sc, "CDJ code (e.g. 813.52): ")
	if !ok {
		return
	}
	if !library.ValidCDJ(cdj) {
		failf("Invalid CDJ code: expected digits.digits")
		waitEnter(s.sc)
		return
	}
	name, ok := prompt(s.sc, "Name: ")
	if !ok || name == "" {
		failf("Name cannot be empty")
		waitEnter(s.sc)
		return
	}
	desc, _ := prompt(s.sc, "Description: ")

	cat := &library.Category{Name: name, Description: desc, CDJ: cdj}
	if _, err := s.mgr.DB().InsertCategory(cat); err != nil {
		failf("Could not add category: %v", err)
	} else {
		successf("Category '%s' (%s) added", name, cdj)
	}
	waitEnter(s.sc)
}

func (s *session) findCategory() *library.Category {
	s.listCategories()
	cdj, ok := prompt(s.sc, "CDJ code: ")
	if !ok || cdj == "" {
		return nil
	}
	cat, err := s.mgr.DB().GetCategoryByCDJ(cdj)
	if err != nil {
		failf("Category '%s' not found", cdj)
		return nil
	}
	return cat
}

func (s *session) updateCategory() {
	title("UPDATE CATEGORY")
	cat := s.findCategory()
	if cat == nil {
		waitEnter(s.sc)
		return
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("Name [%s]: ", cat.Name)); ok && v != "" {
		cat.Name = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("Description [%s]: ", truncate(cat.Description, 30))); ok && v != "" {
		cat.Description = v
	}
	if v, ok := prompt(s.sc, fmt.Sprintf("CDJ [%s]: ", cat.CDJ)); ok && v != "" {
		if !library.ValidCDJ(v) {
			failf("Invalid CDJ code: expected digits.digits")
			waitEnter(s.sc)
			return
		}
		cat.CDJ = v
	}
	if err := s.mgr.DB().UpdateCategory(cat); err != nil {
		failf("Could not update category: %v", err)
	} else {
		successf("Category updated")
	}
	waitEnter(s.sc)
}

func (s *session) deleteCategory() {
	title("DELETE CATEGORY")
	cat := s.findCategory()
	if cat == nil {
		waitEnter(s.sc)
		return
	}
	if !confirm(s.sc, fmt.Sprintf("Really delete category '%s'?", cat.Name)) {
		return
	}
	if err := s.mgr.DB().DeleteCategory(cat.ID); err != nil {
		failf("Could not delete category: %v", err)
	} else {
		successf("Category '%s' deleted", cat.Name)
	}
	waitEnter(s.sc)
}
